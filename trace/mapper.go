package trace

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iamshreeyyy/hackxr/core"
)

var supportsKeywords = []string{"covered", "eligible", "benefits", "approved", "included"}
var contradictsKeywords = []string{"excluded", "not covered", "denied", "prohibited", "limitation"}
var validatesKeywords = []string{"must", "required", "shall", "conditions", "criteria"}

// ClauseRecord is the indexed form of one evidence clause.
type ClauseRecord struct {
	ChunkId        core.ID
	DocumentName   string
	Text           string
	RelevanceScore float64
	WordCount      int
}

// LinkedClause pairs an indexed clause with the link that cited it.
type LinkedClause struct {
	Clause ClauseRecord
	Link   core.TraceabilityLink
}

// DecisionRef is a read view of one decision that cited a clause.
type DecisionRef struct {
	TraceId    string
	Decision   core.Decision
	Query      string
	Confidence float64
	Relation   core.Relation
	Strength   float64
	Timestamp  time.Time
}

// Mapper owns the traceability indices. All state is in memory, bounded,
// and guarded by a single lock; the write path is one query at a time while
// read views may run concurrently.
type Mapper struct {
	logger    *slog.Logger
	maxTraces int
	maxAudit  int
	now       func() time.Time

	mu              sync.RWMutex
	traces          map[string]*core.DecisionTrace
	traceOrder      []string
	decisionToTrace map[string]string
	clauses         map[core.ID]ClauseRecord
	documentClauses map[string][]core.ID
	decisionClauses map[string][]core.ID
	clauseDecisions map[core.ID][]string
	auditLog        []AuditEvent
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// WithCaps bounds the retained decision traces and audit events.
func WithCaps(maxTraces, maxAudit int) Option {
	return func(m *Mapper) {
		if maxTraces > 0 {
			m.maxTraces = maxTraces
		}
		if maxAudit > 0 {
			m.maxAudit = maxAudit
		}
	}
}

// withClock overrides the time source in tests.
func withClock(now func() time.Time) Option {
	return func(m *Mapper) {
		m.now = now
	}
}

// NewMapper creates a Mapper with default caps of 1000 traces and 10000
// audit events.
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{
		logger:          slog.Default().With("component", "trace"),
		maxTraces:       1000,
		maxAudit:        10000,
		now:             time.Now,
		traces:          make(map[string]*core.DecisionTrace),
		decisionToTrace: make(map[string]string),
		clauses:         make(map[core.ID]ClauseRecord),
		documentClauses: make(map[string][]core.ID),
		decisionClauses: make(map[string][]core.ID),
		clauseDecisions: make(map[core.ID][]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Record creates the trace for one completed query: a link per evidence
// clause, the bidirectional indices, and an audit event. The returned trace
// is immutable; callers get a copy of the stored record.
func (m *Mapper) Record(query string, entities core.Entities, result core.DecisionResult, evidence []core.Evidence, steps []core.PipelineStep) core.DecisionTrace {
	traceId := uuid.NewString()
	decisionId := uuid.NewString()
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	links := make([]core.TraceabilityLink, 0, len(evidence))
	clauseIds := make([]core.ID, 0, len(evidence))
	for _, ev := range evidence {
		m.indexClause(ev)

		relation, strength, explanation := classifyRelation(ev, result.Decision)
		link := core.TraceabilityLink{
			Id:          uuid.NewString(),
			DecisionId:  decisionId,
			EvidenceId:  ev.ChunkId,
			Relation:    relation,
			Strength:    strength,
			Explanation: explanation,
			Timestamp:   now,
		}
		links = append(links, link)
		clauseIds = append(clauseIds, ev.ChunkId)
		m.clauseDecisions[ev.ChunkId] = append(m.clauseDecisions[ev.ChunkId], decisionId)
	}
	m.decisionClauses[decisionId] = clauseIds

	trace := &core.DecisionTrace{
		TraceId:    traceId,
		DecisionId: decisionId,
		Query:      query,
		Entities:   entities,
		Decision:   result.Decision,
		Confidence: result.Confidence,
		Amount:     result.Amount,
		Risk:       result.Risk,
		Links:      links,
		Steps:      steps,
		Timestamp:  now,
	}
	m.traces[traceId] = trace
	m.traceOrder = append(m.traceOrder, traceId)
	m.decisionToTrace[decisionId] = traceId
	m.evictLocked()

	m.logAuditLocked("decision_trace_created", fmt.Sprintf(
		"trace=%s decision=%s clauses=%d", traceId, result.Decision, len(evidence)))

	m.logger.Info("created decision trace",
		"trace", traceId, "decision", string(result.Decision), "links", len(links))
	return *trace
}

// indexClause adds a clause to the document index. Re-indexing the same
// clause refreshes its record.
func (m *Mapper) indexClause(ev core.Evidence) {
	if _, seen := m.clauses[ev.ChunkId]; !seen {
		m.documentClauses[ev.DocumentName] = append(m.documentClauses[ev.DocumentName], ev.ChunkId)
	}
	m.clauses[ev.ChunkId] = ClauseRecord{
		ChunkId:        ev.ChunkId,
		DocumentName:   ev.DocumentName,
		Text:           ev.Text,
		RelevanceScore: ev.RelevanceScore,
		WordCount:      len(strings.Fields(ev.Text)),
	}
}

// evictLocked drops the oldest traces past the cap, removing their links
// from the bidirectional indices. The clause index is retained; clauses
// belong to documents, not decisions.
func (m *Mapper) evictLocked() {
	for len(m.traceOrder) > m.maxTraces {
		oldest := m.traceOrder[0]
		m.traceOrder = m.traceOrder[1:]

		trace, ok := m.traces[oldest]
		if !ok {
			continue
		}
		delete(m.traces, oldest)
		delete(m.decisionToTrace, trace.DecisionId)

		for _, id := range m.decisionClauses[trace.DecisionId] {
			m.clauseDecisions[id] = removeString(m.clauseDecisions[id], trace.DecisionId)
			if len(m.clauseDecisions[id]) == 0 {
				delete(m.clauseDecisions, id)
			}
		}
		delete(m.decisionClauses, trace.DecisionId)
	}
}

func removeString(values []string, target string) []string {
	out := values[:0]
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}

// classifyRelation types the link between a clause and a decision outcome.
// For approved decisions, coverage language supports and exclusion language
// contradicts; for rejections the reading inverts. Undecided outcomes link
// through validation requirements or plain references.
func classifyRelation(ev core.Evidence, outcome core.Decision) (core.Relation, float64, string) {
	text := strings.ToLower(ev.Text)

	supports := countTerms(text, supportsKeywords)
	contradicts := countTerms(text, contradictsKeywords)
	validates := countTerms(text, validatesKeywords)

	switch outcome {
	case core.DecisionApproved:
		switch {
		case supports > contradicts:
			return core.RelationSupports, min(1.0, ev.RelevanceScore+0.2),
				fmt.Sprintf("Clause contains %d supportive terms for approved decision", supports)
		case contradicts > supports:
			return core.RelationContradicts, ev.RelevanceScore,
				fmt.Sprintf("Clause contains %d contradictory terms despite approval", contradicts)
		default:
			return core.RelationValidates, ev.RelevanceScore,
				"Clause provides validation criteria for decision"
		}
	case core.DecisionRejected:
		switch {
		case contradicts > supports:
			return core.RelationSupports, min(1.0, ev.RelevanceScore+0.2),
				fmt.Sprintf("Clause contains %d exclusionary terms supporting rejection", contradicts)
		case supports > contradicts:
			return core.RelationContradicts, ev.RelevanceScore,
				fmt.Sprintf("Clause contains %d supportive terms despite rejection", supports)
		default:
			return core.RelationValidates, ev.RelevanceScore,
				"Clause provides validation criteria for decision"
		}
	default:
		if validates > 0 {
			return core.RelationValidates, ev.RelevanceScore,
				fmt.Sprintf("Clause contains %d validation requirements", validates)
		}
		return core.RelationReferences, ev.RelevanceScore * 0.8,
			"Clause provides reference information for decision"
	}
}

func countTerms(text string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			count++
		}
	}
	return count
}

// Trace returns the stored trace for an id.
func (m *Mapper) Trace(traceId string) (core.DecisionTrace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trace, ok := m.traces[traceId]
	if !ok {
		return core.DecisionTrace{}, fmt.Errorf("%w: %s", ErrTraceNotFound, traceId)
	}
	return *trace, nil
}

// EvidenceForDecision returns every clause a decision cited, each with the
// link that cited it.
func (m *Mapper) EvidenceForDecision(decisionId string) []LinkedClause {
	m.mu.RLock()
	defer m.mu.RUnlock()

	traceId, ok := m.decisionToTrace[decisionId]
	if !ok {
		return nil
	}
	trace := m.traces[traceId]

	var out []LinkedClause
	for _, link := range trace.Links {
		clause, ok := m.clauses[link.EvidenceId]
		if !ok {
			continue
		}
		out = append(out, LinkedClause{Clause: clause, Link: link})
	}
	return out
}

// DecisionsForEvidence returns every retained decision that cited a clause.
func (m *Mapper) DecisionsForEvidence(chunkId core.ID) []DecisionRef {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []DecisionRef
	for _, decisionId := range m.clauseDecisions[chunkId] {
		traceId, ok := m.decisionToTrace[decisionId]
		if !ok {
			continue
		}
		trace := m.traces[traceId]

		for _, link := range trace.Links {
			if link.EvidenceId != chunkId {
				continue
			}
			out = append(out, DecisionRef{
				TraceId:    trace.TraceId,
				Decision:   trace.Decision,
				Query:      trace.Query,
				Confidence: trace.Confidence,
				Relation:   link.Relation,
				Strength:   link.Strength,
				Timestamp:  trace.Timestamp,
			})
		}
	}
	return out
}

// ClausesByDocument returns the ids of all indexed clauses of a document.
func (m *Mapper) ClausesByDocument(documentName string) []core.ID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.documentClauses[documentName]
	out := make([]core.ID, len(ids))
	copy(out, ids)
	return out
}
