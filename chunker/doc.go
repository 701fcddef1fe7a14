// Package chunker splits raw document text into bounded, semantically
// coherent segments suitable for indexing. Boundaries follow paragraph and
// sentence structure, with configurable size limits and word overlap
// between adjacent chunks. Chunking is deterministic: identical input and
// configuration always reproduce identical boundaries.
package chunker
