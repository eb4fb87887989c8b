package core

import (
	"encoding/binary"
	"sort"

	"github.com/go-crypt/x/blake2b"
)

// CatalogRecord is one product entry in the catalog. Records are immutable
// once ingested; the catalog is replaced wholesale on refresh, never patched.
type CatalogRecord struct {
	ID         string
	Text       string
	Attributes map[string]string // structured fields (price, capacity, model, ...)
}

// Fingerprint returns a deterministic 64-bit content hash using BLAKE2b.
// Identical content always produces the same fingerprint.
func Fingerprint(text string) uint64 {
	return FingerprintBytes([]byte(text))
}

// FingerprintBytes is Fingerprint for raw bytes.
func FingerprintBytes(data []byte) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Fingerprint returns a content hash covering the record's ID, text and
// attributes. Attribute keys are visited in sorted order so the hash is
// stable regardless of map iteration.
func (r *CatalogRecord) Fingerprint() uint64 {
	keys := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h, _ := blake2b.New(8, nil)
	h.Write([]byte(r.ID))
	h.Write([]byte{0})
	h.Write([]byte(r.Text))
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(r.Attributes[k]))
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// SearchResult is a catalog record matched by vector similarity search.
type SearchResult struct {
	Record *CatalogRecord
	Score  float32
}

// Outcome is the terminal result of validating a generated answer.
type Outcome int

const (
	// OutcomeAccepted means the first candidate passed validation unchanged.
	OutcomeAccepted Outcome = iota + 1
	// OutcomeRepairedAndAccepted means a repaired candidate passed validation.
	OutcomeRepairedAndAccepted
	// OutcomeRejectedFinal means validation failed terminally.
	OutcomeRejectedFinal
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRepairedAndAccepted:
		return "repaired_and_accepted"
	case OutcomeRejectedFinal:
		return "rejected_final"
	default:
		return "unknown"
	}
}

// Turn is one completed request/response cycle in a session transcript.
type Turn struct {
	Query        string
	RetrievedIDs []string
	Answer       string
	Outcome      Outcome
}
