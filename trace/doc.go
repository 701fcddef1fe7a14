// Package trace maintains bidirectional traceability between decisions and
// the evidence they rest on.
//
// Every query produces a DecisionTrace holding typed, scored links from the
// decision to each evidence clause. The mapper indexes links three ways:
// by decision, by evidence clause, and by source document, so auditors can
// walk from any decision to its clauses and from any clause back to every
// decision that cited it. Histories are bounded; the oldest traces and
// audit events are evicted past the configured caps.
package trace
