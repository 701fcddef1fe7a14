package index

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/iamshreeyyy/hackxr/ai"
	"github.com/iamshreeyyy/hackxr/core"
	"github.com/iamshreeyyy/hackxr/storage"
)

// entityWeights scale the re-rank bonus applied per verbatim entity match.
// Unlisted fields carry weight 1.0.
var entityWeights = map[core.Field]float64{
	core.FieldProcedure:      1.5,
	core.FieldPolicyDuration: 1.4,
	core.FieldLocation:       1.3,
	core.FieldAge:            1.2,
}

const rerankBonusStep = 0.1

// HybridIndex stores chunks with dense and sparse representations and
// retrieves them by fused similarity.
type HybridIndex struct {
	cfg      core.Config
	repo     storage.IndexRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a HybridIndex.
type Option func(*HybridIndex)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *HybridIndex) {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
	}
}

// New creates a HybridIndex over the given repository and embedder.
func New(cfg core.Config, repo storage.IndexRepository, embedder ai.Embedder, opts ...Option) *HybridIndex {
	h := &HybridIndex{
		cfg:      cfg,
		repo:     repo,
		embedder: embedder,
		logger:   slog.Default().With("component", "index"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Add embeds a chunk and stores it with both representations.
// An embedding failure leaves the index unchanged for this chunk.
func (h *HybridIndex) Add(ctx context.Context, chunk core.Chunk) error {
	if err := core.ValidateChunk(&chunk); err != nil {
		return err
	}

	dense, err := h.embedder.EmbedText(ctx, chunk.Text)
	if err != nil {
		return fmt.Errorf("embed chunk %d: %w", chunk.Id, err)
	}

	entry := &core.IndexEntry{
		Chunk:  chunk,
		Dense:  dense,
		Sparse: sparseVector(chunk.Text),
	}
	return h.repo.AddEntries(ctx, entry)
}

// scored pairs an entry with its fused similarity for ranking.
type scored struct {
	entry *core.IndexEntry
	score float64
}

// Search ranks all stored chunks against the query and returns those above
// the similarity threshold as evidence. Entities, when provided and
// re-ranking is enabled, boost chunks mentioning the extracted values.
// An empty index yields an empty result, not an error.
func (h *HybridIndex) Search(ctx context.Context, query string, entities core.Entities) ([]core.Evidence, error) {
	denseWeight, sparseWeight := h.cfg.DenseWeight, h.cfg.SparseWeight
	queryDense, err := h.embedder.EmbedText(ctx, query)
	if err != nil {
		// Sparse channel still works without a query embedding, but it
		// must carry the full weight or no score can reach the threshold.
		h.logger.Warn("query embedding failed, using sparse similarity only", "error", err)
		queryDense = nil
		denseWeight, sparseWeight = 0, 1.0
	}
	querySparse := sparseVector(query)

	var results []scored
	err = h.repo.ForEachEntry(ctx, func(entry *core.IndexEntry) error {
		dense := denseSimilarity(queryDense, entry.Dense)
		sparse := sparseSimilarity(querySparse, entry.Sparse)
		score := denseWeight*dense + sparseWeight*sparse
		if score >= h.cfg.SimilarityThreshold {
			results = append(results, scored{entry: entry, score: score})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortScored(results)
	if len(results) > h.cfg.MaxResults {
		results = results[:h.cfg.MaxResults]
	}

	if h.cfg.RerankResults && len(entities) > 0 {
		rerank(results, entities)
	}

	evidence := make([]core.Evidence, 0, len(results))
	for _, r := range results {
		evidence = append(evidence, core.Evidence{
			DocumentName:   r.entry.Chunk.SourceDocument,
			ChunkId:        r.entry.Chunk.Id,
			Text:           r.entry.Chunk.Text,
			RelevanceScore: r.score,
			PageIndex:      r.entry.Chunk.Paragraph,
		})
	}

	h.logger.Debug("search complete", "query_terms", len(querySparse), "results", len(evidence))
	return evidence, nil
}

// rerank boosts scores by verbatim entity mentions and re-sorts.
func rerank(results []scored, entities core.Entities) {
	for i := range results {
		text := strings.ToLower(results[i].entry.Chunk.Text)

		var bonus float64
		for field, value := range entities {
			if value == "" {
				continue
			}
			if strings.Contains(text, strings.ToLower(value)) {
				weight, ok := entityWeights[field]
				if !ok {
					weight = 1.0
				}
				bonus += weight * rerankBonusStep
			}
		}
		results[i].score = min(1.0, results[i].score+bonus)
	}
	sortScored(results)
}

// sortScored orders by score descending; ties resolve to the lower chunk
// ordinal, then the smaller chunk ID, so ranking is deterministic.
func sortScored(results []scored) {
	slices.SortFunc(results, func(a, b scored) int {
		if a.score != b.score {
			if a.score > b.score {
				return -1
			}
			return 1
		}
		if a.entry.Chunk.Ordinal != b.entry.Chunk.Ordinal {
			return a.entry.Chunk.Ordinal - b.entry.Chunk.Ordinal
		}
		switch {
		case a.entry.Chunk.Id < b.entry.Chunk.Id:
			return -1
		case a.entry.Chunk.Id > b.entry.Chunk.Id:
			return 1
		}
		return 0
	})
}

// Stats reports the size and shape of the index.
type Stats struct {
	TotalChunks    int            `json:"totalChunks"`
	DocumentCounts map[string]int `json:"documentCounts"`
}

// Stats returns entry counts for the whole index and per document.
func (h *HybridIndex) Stats(ctx context.Context) (Stats, error) {
	total, err := h.repo.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	counts, err := h.repo.DocumentCounts(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{TotalChunks: total, DocumentCounts: counts}, nil
}
