package index

import (
	"encoding/binary"
	"fmt"

	"github.com/cooltech/fridgebot/core"
	"github.com/mus-format/mus-go/varint"
)

// Snapshot wire format: magic, format version, dimension, entry count, then
// each entry (record followed by its vector) in ascending ID order, then a
// BLAKE2b fingerprint of everything before it. A loaded snapshot produces
// identical search results to the saved one.

var snapshotMagic = [4]byte{'F', 'B', 'I', 'X'}

const snapshotVersion = 1

// Save serializes the snapshot to bytes.
func Save(idx *Index) ([]byte, error) {
	size := len(snapshotMagic)
	size += varint.Int.Size(snapshotVersion)
	size += varint.Int.Size(idx.dim)
	size += varint.Int.Size(len(idx.entries))
	for i := range idx.entries {
		size += core.CatalogRecordMUS.Size(idx.entries[i].record)
		size += core.VectorMUS.Size(idx.entries[i].vector)
	}
	size += 8 // trailing fingerprint

	bs := make([]byte, size)
	n := copy(bs, snapshotMagic[:])
	n += varint.Int.Marshal(snapshotVersion, bs[n:])
	n += varint.Int.Marshal(idx.dim, bs[n:])
	n += varint.Int.Marshal(len(idx.entries), bs[n:])
	for i := range idx.entries {
		n += core.CatalogRecordMUS.Marshal(idx.entries[i].record, bs[n:])
		n += core.VectorMUS.Marshal(idx.entries[i].vector, bs[n:])
	}

	binary.LittleEndian.PutUint64(bs[n:], core.FingerprintBytes(bs[:n]))
	return bs, nil
}

// Load deserializes a snapshot previously produced by Save. Format,
// integrity and dimension invariants are all verified; any violation
// surfaces as ErrCorruptSnapshot.
func Load(bs []byte, opts ...Option) (*Index, error) {
	if len(bs) < len(snapshotMagic)+8 {
		return nil, fmt.Errorf("%w: truncated", ErrCorruptSnapshot)
	}

	payload, tail := bs[:len(bs)-8], bs[len(bs)-8:]
	if core.FingerprintBytes(payload) != binary.LittleEndian.Uint64(tail) {
		return nil, fmt.Errorf("%w: fingerprint mismatch", ErrCorruptSnapshot)
	}

	if string(payload[:len(snapshotMagic)]) != string(snapshotMagic[:]) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptSnapshot)
	}
	n := len(snapshotMagic)

	version, n1, err := varint.Int.Unmarshal(payload[n:])
	n += n1
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, version)
	}

	dim, n1, err := varint.Int.Unmarshal(payload[n:])
	n += n1
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	count, n1, err := varint.Int.Unmarshal(payload[n:])
	n += n1
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	if dim < 0 || count < 0 {
		return nil, fmt.Errorf("%w: negative header field", ErrCorruptSnapshot)
	}

	cfg := newBuildConfig(opts)
	idx := &Index{
		dim:     dim,
		metric:  cfg.metric,
		entries: make([]entry, count),
	}
	for i := 0; i < count; i++ {
		record, n1, err := core.CatalogRecordMUS.Unmarshal(payload[n:])
		n += n1
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCorruptSnapshot, i, err)
		}
		vector, n1, err := core.VectorMUS.Unmarshal(payload[n:])
		n += n1
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCorruptSnapshot, i, err)
		}
		if len(vector) != dim {
			return nil, fmt.Errorf("%w: entry %q has dimension %d, snapshot has %d",
				ErrCorruptSnapshot, record.ID, len(vector), dim)
		}
		if i > 0 && idx.entries[i-1].record.ID >= record.ID {
			return nil, fmt.Errorf("%w: entries out of order at %q", ErrCorruptSnapshot, record.ID)
		}
		idx.entries[i] = entry{record: record, vector: vector}
	}
	if n != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptSnapshot, len(payload)-n)
	}

	return idx, nil
}
