package badger

import (
	"context"
	"testing"

	"github.com/iamshreeyyy/hackxr/core"
	"github.com/iamshreeyyy/hackxr/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.IndexRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func makeEntry(source string, paragraph, ordinal int, text string) *core.IndexEntry {
	return &core.IndexEntry{
		Chunk: core.Chunk{
			Id:             core.ChunkID(source, paragraph, ordinal),
			SourceDocument: source,
			Text:           text,
			Paragraph:      paragraph,
			Ordinal:        ordinal,
			Metadata: core.ChunkMetadata{
				WordCount:  3,
				CharCount:  len(text),
				KeyPhrases: []string{"chunk text"},
				Type:       core.ContentGeneral,
			},
		},
		Dense:  []float32{0.5, 0.5},
		Sparse: map[string]float64{"coverage": 0.5},
	}
}

func TestAddAndGetEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entry := makeEntry("policy.txt", 0, 0, "knee surgery covered")
	require.NoError(t, repo.AddEntries(ctx, entry))

	got, err := repo.GetEntry(ctx, entry.Chunk.Id)
	require.NoError(t, err)
	assert.Equal(t, entry.Chunk, got.Chunk)
	assert.Equal(t, entry.Dense, got.Dense)
	assert.Equal(t, entry.Sparse, got.Sparse)

	chunk, err := repo.GetChunk(ctx, entry.Chunk.Id)
	require.NoError(t, err)
	assert.Equal(t, entry.Chunk, *chunk)
}

func TestGetEntryNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetEntry(context.Background(), core.ID(12345))
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddEntriesIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entry := makeEntry("policy.txt", 0, 0, "knee surgery covered")
	require.NoError(t, repo.AddEntries(ctx, entry))
	require.NoError(t, repo.AddEntries(ctx, entry))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestForEachEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddEntries(ctx,
		makeEntry("a.txt", 0, 0, "first chunk text"),
		makeEntry("a.txt", 0, 1, "second chunk text"),
		makeEntry("b.txt", 0, 0, "third chunk text"),
	))

	seen := make(map[core.ID]bool)
	err := repo.ForEachEntry(ctx, func(entry *core.IndexEntry) error {
		seen[entry.Chunk.Id] = true
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 3)
}

func TestDocumentCounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddEntries(ctx,
		makeEntry("a.txt", 0, 0, "first chunk text"),
		makeEntry("a.txt", 0, 1, "second chunk text"),
		makeEntry("b.txt", 0, 0, "third chunk text"),
	))

	counts, err := repo.DocumentCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a.txt": 2, "b.txt": 1}, counts)
}

func TestDeleteDocument(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddEntries(ctx,
		makeEntry("a.txt", 0, 0, "first chunk text"),
		makeEntry("a.txt", 0, 1, "second chunk text"),
		makeEntry("b.txt", 0, 0, "third chunk text"),
	))

	removed, err := repo.DeleteDocument(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	removed, err = repo.DeleteDocument(ctx, "missing.txt")
	require.NoError(t, err)
	assert.Zero(t, removed)
}
