// Package ai defines the embedding capability consumed by the hybrid index.
//
// The capability is opaque: embed(text) -> vector of fixed dimension. A
// production implementation backed by OpenAI-compatible APIs lives in the
// openai subpackage; FallbackEmbedder provides a deterministic hashed
// bag-of-words rendition of the same dimensionality for environments where
// no embedding service is reachable.
package ai
