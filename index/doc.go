// Package index implements hybrid retrieval over indexed document chunks.
//
// Every chunk is scored on two channels: cosine similarity between dense
// embeddings and a sparse term-frequency dot product. The two scores are
// fused with configurable weights, filtered by a similarity threshold, and
// optionally re-ranked by verbatim entity mentions. Ranking is fully
// deterministic; ties resolve to the lower chunk ordinal.
package index
