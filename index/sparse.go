package index

import (
	"math"
	"strings"
)

// minTermLen excludes very short tokens from the sparse vector.
const minTermLen = 2

// sparseVector computes term frequencies for tokens longer than minTermLen,
// normalized by the total token count.
func sparseVector(text string) map[string]float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return map[string]float64{}
	}

	counts := make(map[string]int)
	for _, token := range tokens {
		if len(token) > minTermLen {
			counts[token]++
		}
	}

	vector := make(map[string]float64, len(counts))
	total := float64(len(tokens))
	for term, count := range counts {
		vector[term] = float64(count) / total
	}
	return vector
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}

// sparseSimilarity computes the dot product of shared terms normalized by
// both vector norms. Either side empty yields zero.
func sparseSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate over the smaller vector.
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for term, weight := range a {
		if other, ok := b[term]; ok {
			dot += weight * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (norm(a) * norm(b))
}

func norm(v map[string]float64) float64 {
	var sum float64
	for _, weight := range v {
		sum += weight * weight
	}
	return math.Sqrt(sum)
}

// denseSimilarity computes cosine similarity between two dense vectors.
// Unit-length embeddings reduce this to a dot product, but norms are
// computed anyway so unnormalized vectors still score correctly.
func denseSimilarity(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
