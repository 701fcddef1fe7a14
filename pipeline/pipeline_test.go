package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/iamshreeyyy/hackxr/ai"
	"github.com/iamshreeyyy/hackxr/chunker"
	"github.com/iamshreeyyy/hackxr/core"
	"github.com/iamshreeyyy/hackxr/decision"
	"github.com/iamshreeyyy/hackxr/extract"
	"github.com/iamshreeyyy/hackxr/index"
	"github.com/iamshreeyyy/hackxr/rules"
	"github.com/iamshreeyyy/hackxr/storage/badger"
	"github.com/iamshreeyyy/hackxr/trace"
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

func newTestPipeline(t *testing.T, embedder ai.Embedder) (*Pipeline, *trace.Mapper) {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	cfg := core.DefaultConfig()
	cfg.SimilarityThreshold = 0.05
	mapper := trace.NewMapper()

	p, err := New(
		chunker.New(cfg),
		index.New(cfg, repo, embedder),
		extract.New(),
		rules.NewValidator(),
		decision.NewEngine(),
		mapper,
	)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p, mapper
}

const policyText = `Knee surgery is covered and eligible for reimbursement after a waiting period of 90 days from policy inception. The insured must be between 18 and 80 years of age at the time of the claim.

Treatment must take place at a registered hospital in Pune, Mumbai, Delhi, Bangalore or elsewhere in India. Claims are approved up to a maximum benefit of 500000 per policy year.

Cosmetic and plastic surgery procedures are excluded from coverage, as are experimental and elective treatments not prescribed by a physician.`

func TestNewRequiresComponents(t *testing.T) {
	_, err := New(nil, nil, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrChunkerRequired)
}

func TestIngestEmptyDocument(t *testing.T) {
	p, _ := newTestPipeline(t, ai.NewFallbackEmbedder(ai.Dimension))

	_, err := p.Ingest(context.Background(), "   ", "policy.txt")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestIngestEmptySource(t *testing.T) {
	p, _ := newTestPipeline(t, ai.NewFallbackEmbedder(ai.Dimension))

	_, err := p.Ingest(context.Background(), policyText, "")
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestIngestIndexesAllChunks(t *testing.T) {
	p, _ := newTestPipeline(t, ai.NewFallbackEmbedder(ai.Dimension))

	result, err := p.Ingest(context.Background(), policyText, "policy.txt")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Greater(t, result.ChunkCount, 0)
	assert.Equal(t, result.ChunkCount, result.IndexedCount)
	assert.Equal(t, "policy.txt", result.SourceDocument)
}

func TestIngestPartialFailure(t *testing.T) {
	p, _ := newTestPipeline(t, failingEmbedder{})

	result, err := p.Ingest(context.Background(), policyText, "policy.txt")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Greater(t, result.ChunkCount, 0)
	assert.Zero(t, result.IndexedCount)
}

func TestQueryEmpty(t *testing.T) {
	p, _ := newTestPipeline(t, ai.NewFallbackEmbedder(ai.Dimension))

	_, err := p.Query(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestQueryApprovedClaim(t *testing.T) {
	p, mapper := newTestPipeline(t, ai.NewFallbackEmbedder(ai.Dimension))
	ctx := context.Background()

	_, err := p.Ingest(ctx, policyText, "policy.txt")
	require.NoError(t, err)

	resp, err := p.Query(ctx, "46-year-old male needs knee surgery in Pune, 5-month policy")
	require.NoError(t, err)

	assert.Equal(t, core.DecisionApproved, resp.Decision)
	require.NotNil(t, resp.Amount)
	assert.InDelta(t, 150000.0, *resp.Amount, 0.001)
	assert.NotEmpty(t, resp.Evidence)
	assert.NotEmpty(t, resp.Justification)
	assert.Equal(t, "46", resp.Entities[core.FieldAge])
	assert.Equal(t, "knee", resp.Entities[core.FieldProcedure])
	assert.True(t, resp.Validation.IsValid)
	assert.Greater(t, resp.Confidence, 0.5)

	// The decision is traceable back to its evidence.
	recorded, err := mapper.Trace(resp.TraceId)
	require.NoError(t, err)
	assert.Equal(t, resp.Decision, recorded.Decision)
	assert.NotEmpty(t, recorded.Links)
}

func TestQueryWithoutEvidence(t *testing.T) {
	p, _ := newTestPipeline(t, ai.NewFallbackEmbedder(ai.Dimension))

	// Nothing ingested and no claim facts in the query, so the critical
	// age rule cannot be satisfied.
	resp, err := p.Query(context.Background(), "is anything covered")
	require.NoError(t, err)

	assert.Equal(t, core.DecisionRejected, resp.Decision)
	assert.Nil(t, resp.Amount)
	assert.Empty(t, resp.Evidence)
	assert.GreaterOrEqual(t, resp.Confidence, 0.0)
	assert.LessOrEqual(t, resp.Confidence, 1.0)
}

func TestQueryStepLog(t *testing.T) {
	p, _ := newTestPipeline(t, ai.NewFallbackEmbedder(ai.Dimension))
	ctx := context.Background()

	_, err := p.Ingest(ctx, policyText, "policy.txt")
	require.NoError(t, err)

	resp, err := p.Query(ctx, "46-year-old needs knee surgery in Pune, 5-month policy")
	require.NoError(t, err)

	want := []string{
		StepQueryParsing,
		StepRetrieval,
		StepValidation,
		StepDecision,
		StepTraceMapping,
	}
	require.Len(t, resp.Steps, len(want))
	for i, step := range resp.Steps {
		assert.Equal(t, want[i], step.Step)
		assert.Equal(t, "completed", step.Status)
		assert.False(t, step.Timestamp.IsZero())
	}
	for i := 1; i < len(resp.Steps); i++ {
		assert.False(t, resp.Steps[i].Timestamp.Before(resp.Steps[i-1].Timestamp))
	}
}

func TestQueryRetrievalUsesStructuredEntities(t *testing.T) {
	p, _ := newTestPipeline(t, ai.NewFallbackEmbedder(ai.Dimension))
	ctx := context.Background()

	// The clause shares vocabulary with the entity rendering ("Age: 46 |
	// Gender: male") but not with the raw query phrasing, so it can only
	// be retrieved through the enriched search text.
	_, err := p.Ingest(ctx, "Age and gender details determine eligibility for every listed procedure.", "policy.txt")
	require.NoError(t, err)

	resp, err := p.Query(ctx, "46-year-old male from Pune")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Evidence)
}

func TestQueryTraceRecordsAllSteps(t *testing.T) {
	p, mapper := newTestPipeline(t, ai.NewFallbackEmbedder(ai.Dimension))
	ctx := context.Background()

	_, err := p.Ingest(ctx, policyText, "policy.txt")
	require.NoError(t, err)

	resp, err := p.Query(ctx, "46-year-old needs knee surgery in Pune, 5-month policy")
	require.NoError(t, err)

	// The persisted trace carries the same step log as the response,
	// including the mapping step itself.
	recorded, err := mapper.Trace(resp.TraceId)
	require.NoError(t, err)
	require.Len(t, recorded.Steps, len(resp.Steps))
	assert.Equal(t, StepTraceMapping, recorded.Steps[len(recorded.Steps)-1].Step)
}
