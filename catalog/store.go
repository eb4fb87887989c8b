package catalog

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/cooltech/fridgebot/core"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Store is the authoritative catalog of product records, backed by BadgerDB.
// The vector index is always derived from the store, never the other way
// around.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenStore opens a catalog store at the specified path.
// Creates the directory if it doesn't exist. With inMemory set, the store
// lives entirely in memory and the path is ignored.
func OpenStore(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "catalog"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// IsClosed returns true if the database is closed.
func (s *Store) IsClosed() bool {
	return s.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (s *Store) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if s.db.IsClosed() {
		return ErrStoreClosed
	}
	tx := s.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// ReplaceAll replaces the whole catalog with the given records in a single
// transaction. Records are validated up front and duplicate IDs rejected;
// on any failure the previous catalog remains intact. The catalog revision
// fingerprint is updated alongside the records.
func (s *Store) ReplaceAll(ctx context.Context, records []core.CatalogRecord) error {
	if err := core.ValidateRecords(records); err != nil {
		return err
	}

	err := s.WithTx(func(tx *badger.Txn) error {
		// Drop the current generation of record keys.
		existing, err := collectRecordKeys(tx)
		if err != nil {
			return err
		}
		for _, key := range existing {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		for i := range records {
			value, err := marshalRecord(&records[i])
			if err != nil {
				return err
			}
			if err := tx.Set(makeRecordKey(records[i].ID), value); err != nil {
				return err
			}
		}
		rev := make([]byte, 8)
		binary.LittleEndian.PutUint64(rev, revisionOf(records))
		if err := tx.Set([]byte(revisionKey), rev); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	s.logger.Info("catalog replaced", "records", len(records))
	return nil
}

// Get retrieves a single record by ID.
func (s *Store) Get(ctx context.Context, id string) (*core.CatalogRecord, error) {
	var result *core.CatalogRecord
	err := s.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRecordKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return fmt.Errorf("%w: %q", ErrNotFound, id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = unmarshalRecord(val)
			return err
		})
	}, false)
	return result, err
}

// All retrieves every record in the catalog, in ascending ID order.
func (s *Store) All(ctx context.Context) ([]core.CatalogRecord, error) {
	var results []core.CatalogRecord
	err := s.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = recordKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				record, err := unmarshalRecord(val)
				if err != nil {
					return err
				}
				results = append(results, *record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}

// Count returns the number of records in the catalog.
func (s *Store) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = recordKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Revision returns the fingerprint written by the last ReplaceAll, or zero
// for a catalog that has never been populated. Equal record sets always
// report equal revisions, so callers can skip index rebuilds for unchanged
// catalogs.
func (s *Store) Revision(ctx context.Context) (uint64, error) {
	var rev uint64
	err := s.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(revisionKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("%w: bad revision length %d", ErrSerializationFailed, len(val))
			}
			rev = binary.LittleEndian.Uint64(val)
			return nil
		})
	}, false)
	return rev, err
}

// revisionOf fingerprints a record set independent of input order.
func revisionOf(records []core.CatalogRecord) uint64 {
	fps := make([]uint64, len(records))
	for i := range records {
		fps[i] = records[i].Fingerprint()
	}
	slices.Sort(fps)

	input := make([]byte, 0, 8*len(fps))
	for _, fp := range fps {
		input = binary.LittleEndian.AppendUint64(input, fp)
	}
	return core.FingerprintBytes(input)
}

// collectRecordKeys copies every record key in the transaction. Keys are
// copied because badger reuses iterator buffers.
func collectRecordKeys(tx *badger.Txn) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = recordKeyPrefix()
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys, nil
}

func marshalRecord(record *core.CatalogRecord) ([]byte, error) {
	bs := make([]byte, core.CatalogRecordMUS.Size(*record))
	core.CatalogRecordMUS.Marshal(*record, bs)
	return bs, nil
}

func unmarshalRecord(bs []byte) (*core.CatalogRecord, error) {
	record, n, err := core.CatalogRecordMUS.Unmarshal(bs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(bs) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSerializationFailed, len(bs)-n)
	}
	return &record, nil
}
