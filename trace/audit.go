package trace

import (
	"fmt"
	"time"

	"github.com/iamshreeyyy/hackxr/core"
)

// AuditEvent is one entry of the bounded audit log.
type AuditEvent struct {
	Timestamp time.Time
	EventType string
	Detail    string
}

// AuditReport summarizes the traceability state for auditors.
type AuditReport struct {
	TotalDecisions      int
	TotalClauses        int
	TotalDocuments      int
	TotalLinks          int
	AverageLinkStrength float64
	DecisionCounts      map[core.Decision]int
	DocumentUsage       map[string]int
	DecisionCoverage    float64
	ClauseCoverage      float64
	AuditEvents         int
}

// TraceExport bundles a trace with the full records of its cited clauses.
type TraceExport struct {
	Trace      core.DecisionTrace
	Clauses    []LinkedClause
	ExportedAt time.Time
}

// logAuditLocked appends an audit event; caller holds the write lock.
func (m *Mapper) logAuditLocked(eventType, detail string) {
	m.auditLog = append(m.auditLog, AuditEvent{
		Timestamp: m.now(),
		EventType: eventType,
		Detail:    detail,
	})
	if len(m.auditLog) > m.maxAudit {
		m.auditLog = m.auditLog[len(m.auditLog)-m.maxAudit:]
	}
}

// AuditEvents returns a copy of the retained audit log.
func (m *Mapper) AuditEvents() []AuditEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]AuditEvent, len(m.auditLog))
	copy(out, m.auditLog)
	return out
}

// Report computes the audit summary over all retained traces.
func (m *Mapper) Report() AuditReport {
	return m.ReportRange(time.Time{}, time.Time{})
}

// ReportRange computes the audit summary over traces recorded inside the
// time window. A zero bound leaves that side open. Clause and document
// totals describe the indexed corpus and are not time-scoped.
func (m *Mapper) ReportRange(start, end time.Time) AuditReport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inWindow := func(ts time.Time) bool {
		if !start.IsZero() && ts.Before(start) {
			return false
		}
		if !end.IsZero() && ts.After(end) {
			return false
		}
		return true
	}

	report := AuditReport{
		TotalClauses:   len(m.clauses),
		TotalDocuments: len(m.documentClauses),
		DecisionCounts: make(map[core.Decision]int),
		DocumentUsage:  make(map[string]int),
	}
	for _, ev := range m.auditLog {
		if inWindow(ev.Timestamp) {
			report.AuditEvents++
		}
	}

	var strengthSum float64
	decisionsWithLinks := 0
	for _, trace := range m.traces {
		if !inWindow(trace.Timestamp) {
			continue
		}
		report.TotalDecisions++
		report.DecisionCounts[trace.Decision]++
		if len(trace.Links) > 0 {
			decisionsWithLinks++
		}
		for _, link := range trace.Links {
			report.TotalLinks++
			strengthSum += link.Strength
		}
	}
	if report.TotalLinks > 0 {
		report.AverageLinkStrength = strengthSum / float64(report.TotalLinks)
	}

	for name, ids := range m.documentClauses {
		report.DocumentUsage[name] = len(ids)
	}

	if report.TotalDecisions > 0 {
		report.DecisionCoverage = float64(decisionsWithLinks) / float64(report.TotalDecisions)
	}
	if report.TotalClauses > 0 {
		report.ClauseCoverage = float64(len(m.clauseDecisions)) / float64(report.TotalClauses)
	}
	return report
}

// Export bundles a trace with the full clause records for external review.
func (m *Mapper) Export(traceId string) (TraceExport, error) {
	trace, err := m.Trace(traceId)
	if err != nil {
		return TraceExport{}, err
	}
	return TraceExport{
		Trace:      trace,
		Clauses:    m.EvidenceForDecision(trace.DecisionId),
		ExportedAt: m.now(),
	}, nil
}

// Statistics is a compact view of the mapper's state.
type Statistics struct {
	Traces           int
	Links            int
	IndexedClauses   int
	IndexedDocuments int
	AuditEvents      int
	RelationCounts   map[core.Relation]int
}

// Statistics reports index sizes and the relation type distribution.
func (m *Mapper) Statistics() Statistics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Statistics{
		Traces:           len(m.traces),
		IndexedClauses:   len(m.clauses),
		IndexedDocuments: len(m.documentClauses),
		AuditEvents:      len(m.auditLog),
		RelationCounts:   make(map[core.Relation]int),
	}
	for _, trace := range m.traces {
		for _, link := range trace.Links {
			stats.Links++
			stats.RelationCounts[link.Relation]++
		}
	}
	return stats
}

// String renders the report for CLI output.
func (r AuditReport) String() string {
	return fmt.Sprintf(
		"decisions=%d clauses=%d documents=%d links=%d avgStrength=%.2f decisionCoverage=%.2f clauseCoverage=%.2f",
		r.TotalDecisions, r.TotalClauses, r.TotalDocuments, r.TotalLinks,
		r.AverageLinkStrength, r.DecisionCoverage, r.ClauseCoverage)
}
