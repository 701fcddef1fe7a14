package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/iamshreeyyy/hackxr/chunker"
	"github.com/iamshreeyyy/hackxr/core"
	"github.com/iamshreeyyy/hackxr/decision"
	"github.com/iamshreeyyy/hackxr/extract"
	"github.com/iamshreeyyy/hackxr/index"
	"github.com/iamshreeyyy/hackxr/rules"
	"github.com/iamshreeyyy/hackxr/trace"
	"github.com/panjf2000/ants/v2"
)

// Pipeline step names recorded in the decision path log.
const (
	StepQueryParsing    = "query_parsing"
	StepRetrieval       = "document_retrieval"
	StepValidation      = "policy_validation"
	StepDecision        = "decision_making"
	StepTraceMapping    = "traceability_mapping"
	stepStatusCompleted = "completed"
)

// Pipeline wires the claim processing components together.
type Pipeline struct {
	chunker   *chunker.Chunker
	index     *index.HybridIndex
	extractor *extract.Extractor
	validator *rules.Validator
	engine    *decision.Engine
	mapper    *trace.Mapper
	pool      *ants.Pool
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent chunk indexing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a Pipeline from its components.
func New(
	chk *chunker.Chunker,
	idx *index.HybridIndex,
	extractor *extract.Extractor,
	validator *rules.Validator,
	engine *decision.Engine,
	mapper *trace.Mapper,
	opts ...Option,
) (*Pipeline, error) {
	if chk == nil {
		return nil, ErrChunkerRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if validator == nil {
		return nil, ErrValidatorRequired
	}
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if mapper == nil {
		return nil, ErrMapperRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunker:   chk,
		index:     idx,
		extractor: extractor,
		validator: validator,
		engine:    engine,
		mapper:    mapper,
		pool:      pool,
		logger:    slog.Default().With("component", "pipeline"),
		now:       time.Now,
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// IngestResult reports how much of a document made it into the index.
type IngestResult struct {
	SourceDocument string
	ChunkCount     int
	IndexedCount   int
	Success        bool
}

// Ingest chunks a document and indexes the chunks concurrently.
// A chunk that fails to embed or store is skipped; the result carries the
// partial success count. Success means every chunk was indexed.
func (p *Pipeline) Ingest(ctx context.Context, text, sourceId string) (IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		return IngestResult{}, ErrEmptyDocument
	}
	if strings.TrimSpace(sourceId) == "" {
		return IngestResult{}, ErrEmptySource
	}

	chunks, err := p.chunker.Chunk(text, sourceId)
	if err != nil {
		return IngestResult{}, err
	}
	if len(chunks) == 0 {
		return IngestResult{}, ErrEmptyDocument
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	indexed := 0

	for _, chunk := range chunks {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.index.Add(ctx, chunk); err != nil {
				p.logger.Warn("skipping chunk", "chunk", chunk.Id, "error", err)
				return
			}
			mu.Lock()
			indexed++
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			p.logger.Warn("skipping chunk", "chunk", chunk.Id, "error", submitErr)
		}
	}
	wg.Wait()

	result := IngestResult{
		SourceDocument: sourceId,
		ChunkCount:     len(chunks),
		IndexedCount:   indexed,
		Success:        indexed == len(chunks),
	}
	p.logger.Info("document ingested",
		"source", sourceId, "chunks", result.ChunkCount, "indexed", result.IndexedCount)
	return result, nil
}

// QueryResponse is the full answer to one claim query.
type QueryResponse struct {
	Decision      core.Decision
	Confidence    float64
	Amount        *float64
	Justification string
	Evidence      []core.Evidence
	TraceId       string
	Entities      core.Entities
	Validation    core.ValidationResult
	Steps         []core.PipelineStep
}

// Query runs the decision path for one claim query and records its trace.
// The decision engine is the terminal error boundary, so the only error
// Query can return is a malformed query or a failed retrieval scan.
func (p *Pipeline) Query(ctx context.Context, query string) (QueryResponse, error) {
	if strings.TrimSpace(query) == "" {
		return QueryResponse{}, ErrEmptyQuery
	}

	var steps []core.PipelineStep
	logStep := func(step, detail string) {
		steps = append(steps, core.PipelineStep{
			Step:      step,
			Status:    stepStatusCompleted,
			Detail:    detail,
			Timestamp: p.now(),
		})
	}

	entities, queryCtx := p.extractor.Extract(query)
	logStep(StepQueryParsing, fmt.Sprintf("entities=%d type=%s", len(entities), queryCtx.QuestionType))

	// Retrieval sees the raw query plus the structured entity rendering,
	// so extracted values pull in clauses the phrasing alone would miss.
	enhanced := query + " " + extract.StructuredQuery(entities)
	evidence, err := p.index.Search(ctx, enhanced, entities)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("retrieval: %w", err)
	}
	logStep(StepRetrieval, fmt.Sprintf("clauses=%d", len(evidence)))

	validation := p.validator.Validate(entities, evidence)
	logStep(StepValidation, fmt.Sprintf("satisfied=%d violated=%d",
		len(validation.SatisfiedRules), len(validation.ViolatedRules)))

	result := p.engine.Decide(entities, evidence, validation, queryCtx.QuestionType)
	logStep(StepDecision, fmt.Sprintf("decision=%s confidence=%.2f",
		result.Decision, result.Confidence))

	// The mapping step is logged before Record so the persisted trace
	// carries the complete step log, its own step included.
	logStep(StepTraceMapping, fmt.Sprintf("clauses=%d", len(evidence)))
	decisionTrace := p.mapper.Record(query, entities, result, evidence, steps)

	p.logger.Info("query processed",
		"decision", string(result.Decision),
		"confidence", result.Confidence,
		"evidence", len(evidence),
		"trace", decisionTrace.TraceId)

	return QueryResponse{
		Decision:      result.Decision,
		Confidence:    result.Confidence,
		Amount:        result.Amount,
		Justification: result.Justification,
		Evidence:      evidence,
		TraceId:       decisionTrace.TraceId,
		Entities:      entities,
		Validation:    validation,
		Steps:         steps,
	}, nil
}

// Release frees the worker pool. The pipeline must not be used afterward.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
