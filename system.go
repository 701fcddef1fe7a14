package hackxr

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iamshreeyyy/hackxr/ai"
	"github.com/iamshreeyyy/hackxr/ai/openai"
	"github.com/iamshreeyyy/hackxr/chunker"
	"github.com/iamshreeyyy/hackxr/core"
	"github.com/iamshreeyyy/hackxr/decision"
	"github.com/iamshreeyyy/hackxr/extract"
	"github.com/iamshreeyyy/hackxr/index"
	"github.com/iamshreeyyy/hackxr/parser"
	"github.com/iamshreeyyy/hackxr/pipeline"
	"github.com/iamshreeyyy/hackxr/rules"
	"github.com/iamshreeyyy/hackxr/storage/badger"
	"github.com/iamshreeyyy/hackxr/trace"
)

// System wires storage, retrieval and the decision pipeline into one
// claim processing service.
type System struct {
	backend   *badger.Backend
	repo      *badger.EntryRepository
	provider  ai.Provider
	idx       *index.HybridIndex
	validator *rules.Validator
	engine    *decision.Engine
	mapper    *trace.Mapper
	pipeline  *pipeline.Pipeline
	logger    *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	cfg      core.Config
	aiConfig *ai.Config
	offline  bool
}

// WithConfig replaces the default pipeline configuration.
func WithConfig(cfg core.Config) SystemOption {
	return func(o *systemOptions) {
		o.cfg = cfg
	}
}

// WithAIConfig replaces the default embedding service configuration.
func WithAIConfig(cfg *ai.Config) SystemOption {
	return func(o *systemOptions) {
		o.aiConfig = cfg
	}
}

// WithOfflineEmbeddings skips the embedding service entirely and uses the
// deterministic fallback embedder.
func WithOfflineEmbeddings() SystemOption {
	return func(o *systemOptions) {
		o.offline = true
	}
}

// NewSystem creates a fully wired claim processing system.
func NewSystem(opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		cfg:      core.DefaultConfig(),
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if issues := options.cfg.Validate(); len(issues) > 0 {
		return nil, errors.Join(issues...)
	}

	backend, err := badger.OpenBackend()
	if err != nil {
		return nil, err
	}
	repo := badger.NewEntryRepository(backend)

	var provider ai.Provider
	if options.offline {
		provider = ai.NewFallbackProvider()
	} else {
		provider = openai.NewProviderWithFallback(options.aiConfig)
	}

	idx := index.New(options.cfg, repo, provider.Embedder())
	validator := rules.NewValidator()
	engine := decision.NewEngine(decision.WithMaxHistory(options.cfg.MaxDecisionHistory))
	mapper := trace.NewMapper(trace.WithCaps(options.cfg.MaxDecisionHistory, options.cfg.MaxAuditEvents))

	pl, err := pipeline.New(
		chunker.New(options.cfg),
		idx,
		extract.New(),
		validator,
		engine,
		mapper,
	)
	if err != nil {
		provider.Close()
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &System{
		backend:   backend,
		repo:      repo,
		provider:  provider,
		idx:       idx,
		validator: validator,
		engine:    engine,
		mapper:    mapper,
		pipeline:  pl,
		logger:    slog.Default(),
	}, nil
}

// IngestDocument chunks and indexes a policy document given as plain text.
func (s *System) IngestDocument(ctx context.Context, text, sourceId string) (pipeline.IngestResult, error) {
	return s.pipeline.Ingest(ctx, text, sourceId)
}

// IngestFile parses a policy file (PDF, Word or plain text) and indexes it.
// The base file name becomes the source document id.
func (s *System) IngestFile(ctx context.Context, path string) (pipeline.IngestResult, error) {
	doc, err := parser.Parse(path)
	if err != nil {
		return pipeline.IngestResult{}, err
	}
	return s.pipeline.Ingest(ctx, doc.Text, doc.Name)
}

// ProcessQuery runs the full decision path for one claim query.
func (s *System) ProcessQuery(ctx context.Context, query string) (pipeline.QueryResponse, error) {
	return s.pipeline.Query(ctx, query)
}

// AddRule registers a custom validation rule.
func (s *System) AddRule(rule rules.Rule) error {
	return s.validator.AddRule(rule)
}

// RemoveDocument deletes a document's chunks from the index and reports
// how many were removed.
func (s *System) RemoveDocument(ctx context.Context, sourceId string) (int, error) {
	return s.repo.DeleteDocument(ctx, sourceId)
}

// Trace returns a recorded decision trace.
func (s *System) Trace(traceId string) (core.DecisionTrace, error) {
	return s.mapper.Trace(traceId)
}

// ExportTrace returns a decision trace bundled with its cited clauses.
func (s *System) ExportTrace(traceId string) (trace.TraceExport, error) {
	return s.mapper.Export(traceId)
}

// EvidenceForDecision returns the clauses a decision cited.
func (s *System) EvidenceForDecision(decisionId string) []trace.LinkedClause {
	return s.mapper.EvidenceForDecision(decisionId)
}

// DecisionsForEvidence returns the decisions that cited a clause.
func (s *System) DecisionsForEvidence(chunkId core.ID) []trace.DecisionRef {
	return s.mapper.DecisionsForEvidence(chunkId)
}

// AuditReport summarizes recorded decisions, their evidence usage and the
// recent audit event log.
func (s *System) AuditReport() trace.AuditReport {
	return s.mapper.Report()
}

// AuditReportRange summarizes decisions recorded inside a time window.
// Zero bounds are open ended.
func (s *System) AuditReportRange(start, end time.Time) trace.AuditReport {
	return s.mapper.ReportRange(start, end)
}

// Stats reports the state of the index and the decision history.
type Stats struct {
	Index     index.Stats
	Rules     rules.Statistics
	Decisions decision.Statistics
	Traces    trace.Statistics
}

// Stats collects operational statistics from every component.
func (s *System) Stats(ctx context.Context) (Stats, error) {
	indexStats, err := s.idx.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Index:     indexStats,
		Rules:     s.validator.Statistics(),
		Decisions: s.engine.Statistics(),
		Traces:    s.mapper.Statistics(),
	}, nil
}

// Close releases the pipeline workers, the AI provider and storage.
func (s *System) Close() error {
	s.pipeline.Release()

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.repo.Close(); err != nil {
		s.logger.Error("error closing index repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
