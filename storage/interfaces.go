package storage

import (
	"context"

	"github.com/iamshreeyyy/hackxr/core"
)

// IndexRepository provides operations for managing indexed chunk entries.
// Implementations must be thread-safe and support concurrent access.
type IndexRepository interface {
	// AddEntries stores one or more index entries.
	// Entries carry content-derived IDs, so re-adding the same chunk
	// overwrites the previous entry rather than duplicating it.
	AddEntries(ctx context.Context, entries ...*core.IndexEntry) error

	// GetEntry retrieves a single entry by chunk ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, id core.ID) (*core.IndexEntry, error)

	// GetChunk retrieves just the chunk of an entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// ForEachEntry invokes fn for every stored entry within a read
	// transaction. Iteration stops on the first error fn returns.
	ForEachEntry(ctx context.Context, fn func(entry *core.IndexEntry) error) error

	// Count returns the total number of stored entries.
	Count(ctx context.Context) (int, error)

	// DocumentCounts returns the number of entries per source document.
	DocumentCounts(ctx context.Context) (map[string]int, error)

	// DeleteDocument removes all entries belonging to a source document.
	// Returns the number of entries removed; zero is not an error.
	DeleteDocument(ctx context.Context, sourceDocument string) (int, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}
