package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/iamshreeyyy/hackxr/core"
	"github.com/iamshreeyyy/hackxr/storage"
)

// EntryRepository implements storage.IndexRepository for BadgerDB.
type EntryRepository struct {
	backend *Backend
}

var _ storage.IndexRepository = (*EntryRepository)(nil)

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(backend *Backend) *EntryRepository {
	return &EntryRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *EntryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *EntryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddEntries stores one or more index entries.
func (r *EntryRepository) AddEntries(ctx context.Context, entries ...*core.IndexEntry) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			key := makeEntryKey(entry.Chunk.Id)
			if err := tx.Set(key, storage.MarshalIndexEntry(entry)); err != nil {
				return err
			}

			docKey := makeEntryDocKey(entry.Chunk.SourceDocument, entry.Chunk.Id)
			if err := tx.Set(docKey, storage.MarshalID(entry.Chunk.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEntry retrieves a single entry by chunk ID.
func (r *EntryRepository) GetEntry(ctx context.Context, id core.ID) (*core.IndexEntry, error) {
	var entry *core.IndexEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		entry, err = readEntry(tx, makeEntryKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, storage.ErrNotFound
	}
	return entry, nil
}

// GetChunk retrieves just the chunk of an entry by ID.
func (r *EntryRepository) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	entry, err := r.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entry.Chunk, nil
}

// ForEachEntry invokes fn for every stored entry within a read transaction.
func (r *EntryRepository) ForEachEntry(ctx context.Context, fn func(entry *core.IndexEntry) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.IndexEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalIndexEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(entry); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Count returns the total number of stored entries.
func (r *EntryRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// DocumentCounts returns the number of entries per source document.
// Document names are recovered from index keys; the entry ID occupies a
// fixed-width suffix so names may safely contain separators.
func (r *EntryRepository) DocumentCounts(ctx context.Context) (map[string]int, error) {
	prefix := []byte(entryDocPrefix + ":")
	counts := make(map[string]int)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix)+9 {
				return storage.ErrTruncatedData
			}
			source := string(key[len(prefix) : len(key)-9])
			counts[source]++
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// DeleteDocument removes all entries belonging to a source document.
func (r *EntryRepository) DeleteDocument(ctx context.Context, sourceDocument string) (int, error) {
	removed := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var ids []core.ID
		var docKeys [][]byte

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialEntryDocKey(sourceDocument)
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			docKeys = append(docKeys, item.KeyCopy(nil))

			err := item.Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				iter.Close()
				return err
			}
		}
		iter.Close()

		for i, id := range ids {
			if err := tx.Delete(makeEntryKey(id)); err != nil {
				return err
			}
			if err := tx.Delete(docKeys[i]); err != nil {
				return err
			}
		}
		removed = len(ids)
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// readEntry reads and unmarshals an entry, returning nil if the key is absent.
func readEntry(tx *badger.Txn, key []byte) (*core.IndexEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.IndexEntry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalIndexEntry(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
