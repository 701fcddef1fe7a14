package index

import (
	"context"
	"errors"
	"testing"

	"github.com/iamshreeyyy/hackxr/ai"
	"github.com/iamshreeyyy/hackxr/core"
	"github.com/iamshreeyyy/hackxr/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingEmbedder implements ai.Embedder and always errors.
type failingEmbedder struct{}

func (failingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embedder offline")
}

func (failingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("embedder offline")
}

func (failingEmbedder) Dimension() int { return ai.Dimension }

func newTestIndex(t *testing.T, cfg core.Config) *HybridIndex {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return New(cfg, repo, ai.NewFallbackEmbedder(ai.Dimension))
}

func chunkOf(text string, ordinal int) core.Chunk {
	return core.Chunk{
		Id:             core.ChunkID("policy.txt", 0, ordinal),
		SourceDocument: "policy.txt",
		Text:           text,
		Ordinal:        ordinal,
		Metadata: core.ChunkMetadata{
			WordCount: len(text),
			CharCount: len(text),
			Type:      core.ContentGeneral,
		},
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := newTestIndex(t, core.DefaultConfig())

	evidence, err := idx.Search(context.Background(), "knee surgery", nil)
	require.NoError(t, err)
	assert.Empty(t, evidence)
}

func TestSearchFindsMatchingChunk(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.SimilarityThreshold = 0.1
	idx := newTestIndex(t, cfg)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunkOf("knee surgery is covered after the waiting period", 0)))
	require.NoError(t, idx.Add(ctx, chunkOf("premium payment schedules are listed in annexure two", 1)))

	evidence, err := idx.Search(ctx, "knee surgery covered", nil)
	require.NoError(t, err)
	require.NotEmpty(t, evidence)
	assert.Contains(t, evidence[0].Text, "knee surgery")

	// Scores descend.
	for i := 1; i < len(evidence); i++ {
		assert.GreaterOrEqual(t, evidence[i-1].RelevanceScore, evidence[i].RelevanceScore)
	}
}

func TestSearchThresholdFilters(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.SimilarityThreshold = 0.99
	idx := newTestIndex(t, cfg)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunkOf("knee surgery is covered", 0)))

	evidence, err := idx.Search(ctx, "entirely unrelated gardening advice", nil)
	require.NoError(t, err)
	assert.Empty(t, evidence)
}

func TestSearchMaxResults(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.SimilarityThreshold = 0.0
	cfg.MaxResults = 2
	idx := newTestIndex(t, cfg)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, idx.Add(ctx, chunkOf("coverage terms for surgical procedures apply", i)))
	}

	evidence, err := idx.Search(ctx, "coverage terms", nil)
	require.NoError(t, err)
	assert.Len(t, evidence, 2)
}

func TestRerankBoostsEntityMentions(t *testing.T) {
	results := []scored{
		{entry: &core.IndexEntry{Chunk: chunkOf("general coverage terms apply to all members", 0)}, score: 0.65},
		{entry: &core.IndexEntry{Chunk: chunkOf("knee surgery requires pre-authorization", 1)}, score: 0.60},
	}

	rerank(results, core.Entities{core.FieldProcedure: "knee"})

	// knee chunk gains 1.5*0.1 and overtakes the first result
	assert.Equal(t, 1, results[0].entry.Chunk.Ordinal)
	assert.InDelta(t, 0.75, results[0].score, 1e-9)
	assert.InDelta(t, 0.65, results[1].score, 1e-9)
}

func TestRerankClampsToOne(t *testing.T) {
	results := []scored{
		{entry: &core.IndexEntry{Chunk: chunkOf("knee surgery in Pune", 0)}, score: 0.99},
	}

	rerank(results, core.Entities{
		core.FieldProcedure: "knee",
		core.FieldLocation:  "Pune",
	})
	assert.Equal(t, 1.0, results[0].score)
}

func TestAddEmbeddingFailureSkips(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	idx := New(core.DefaultConfig(), repo, failingEmbedder{})
	ctx := context.Background()

	err = idx.Add(ctx, chunkOf("knee surgery is covered", 0))
	require.Error(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

// queryFailingEmbedder embeds normally except for one exact text.
type queryFailingEmbedder struct {
	inner  ai.Embedder
	failOn string
}

func (q queryFailingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == q.failOn {
		return nil, errors.New("embedder offline")
	}
	return q.inner.EmbedText(ctx, text)
}

func (q queryFailingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return q.inner.EmbedTexts(ctx, texts)
}

func (q queryFailingEmbedder) Dimension() int { return q.inner.Dimension() }

func TestSearchDegradesToSparseOnly(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	query := "knee surgery is covered after the waiting period"
	embedder := queryFailingEmbedder{
		inner:  ai.NewFallbackEmbedder(ai.Dimension),
		failOn: query,
	}
	// Default threshold stays above SparseWeight, so the degraded path
	// must renormalize or nothing can ever match.
	idx := New(core.DefaultConfig(), repo, embedder)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunkOf(query, 0)))

	evidence, err := idx.Search(ctx, query, nil)
	require.NoError(t, err)
	require.NotEmpty(t, evidence)
	assert.GreaterOrEqual(t, evidence[0].RelevanceScore, core.DefaultConfig().SimilarityThreshold)
}

func TestSearchDeterministicOrder(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.SimilarityThreshold = 0.0
	idx := newTestIndex(t, cfg)
	ctx := context.Background()

	texts := []string{
		"waiting period for joint replacement surgery",
		"coverage for cardiac procedures at network hospitals",
		"exclusions for cosmetic and plastic surgery",
	}
	for i, text := range texts {
		require.NoError(t, idx.Add(ctx, chunkOf(text, i)))
	}

	first, err := idx.Search(ctx, "surgery coverage", nil)
	require.NoError(t, err)
	second, err := idx.Search(ctx, "surgery coverage", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStats(t *testing.T) {
	idx := newTestIndex(t, core.DefaultConfig())
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, chunkOf("first chunk about coverage", 0)))
	require.NoError(t, idx.Add(ctx, chunkOf("second chunk about claims", 1)))

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalChunks)
	assert.Equal(t, map[string]int{"policy.txt": 2}, stats.DocumentCounts)
}
