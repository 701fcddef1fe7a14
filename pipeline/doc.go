// Package pipeline orchestrates the claim processing flow.
//
// Ingest splits a document into chunks and indexes them concurrently; a
// chunk that fails to embed is skipped and the rest proceed, with the
// partial success count reported back. Query runs the five-step decision
// path: entity extraction, hybrid retrieval, rule validation, decision, and
// traceability recording. Every step appends to an ordered log that ends
// up in the decision trace.
package pipeline
