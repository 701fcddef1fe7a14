package ai

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// fallbackVocabSize bounds the hashed vocabulary of the fallback embedder.
const fallbackVocabSize = 1000

// fallbackMaxWords caps how many leading words contribute to a vector.
const fallbackMaxWords = 50

// FallbackEmbedder is a deterministic hashed bag-of-words embedder used when
// no embedding service is available. It produces unit-length vectors of the
// same dimensionality as the production embedder, so degraded operation
// keeps the index internally consistent. Identical text always yields an
// identical vector.
type FallbackEmbedder struct {
	dim int
}

var _ Embedder = (*FallbackEmbedder)(nil)

// NewFallbackEmbedder creates a fallback embedder of the given dimension.
// A non-positive dimension falls back to the system default.
func NewFallbackEmbedder(dim int) *FallbackEmbedder {
	if dim <= 0 {
		dim = Dimension
	}
	return &FallbackEmbedder{dim: dim}
}

// EmbedText generates a deterministic embedding from the word content of text.
func (f *FallbackEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, f.dim)

	words := strings.Fields(strings.ToLower(text))
	if len(words) > fallbackMaxWords {
		words = words[:fallbackMaxWords]
	}
	for _, word := range words {
		bucket := hashWord(word) % fallbackVocabSize
		vector[bucket%uint32(f.dim)] += 1.0
	}

	normalize(vector)
	return vector, nil
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (f *FallbackEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := f.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = v
	}
	return embeddings, nil
}

// Dimension reports the fixed vector length.
func (f *FallbackEmbedder) Dimension() int {
	return f.dim
}

// hashWord maps a word onto the hashed vocabulary. FNV keeps the mapping
// stable across processes, unlike Go's randomized map hash.
func hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}

func normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vector {
		vector[i] /= norm
	}
}

// FallbackProvider wraps a FallbackEmbedder as a Provider.
type FallbackProvider struct {
	embedder *FallbackEmbedder
}

var _ Provider = (*FallbackProvider)(nil)

// NewFallbackProvider creates a provider serving the deterministic fallback
// embedder at the default dimension.
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{embedder: NewFallbackEmbedder(Dimension)}
}

// Embedder returns the fallback embedding service.
func (p *FallbackProvider) Embedder() Embedder {
	return p.embedder
}

// Close is a no-op; the fallback holds no resources.
func (p *FallbackProvider) Close() error {
	return nil
}
