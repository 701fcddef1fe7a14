package core

import (
	"fmt"
	"math"
)

// Config holds every tuning knob of the pipeline. It is threaded explicitly
// through component constructors; Validate runs once at startup and returns
// the full list of violations rather than failing on the first.
type Config struct {
	// Chunk sizing (characters).
	MaxChunkSize int
	MinChunkSize int
	OverlapSize  int // trailing words carried into the next chunk

	// Paragraph and sentence boundaries.
	PreserveParagraphs bool
	PreserveSentences  bool

	// Hybrid search fusion. DenseWeight + SparseWeight must equal 1.0.
	DenseWeight         float64
	SparseWeight        float64
	SimilarityThreshold float64
	MaxResults          int
	RerankResults       bool

	// Bounded in-process history.
	MaxDecisionHistory int
	MaxAuditEvents     int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		MaxChunkSize:        512,
		MinChunkSize:        50,
		OverlapSize:         50,
		PreserveParagraphs:  true,
		PreserveSentences:   true,
		DenseWeight:         0.7,
		SparseWeight:        0.3,
		SimilarityThreshold: 0.6,
		MaxResults:          10,
		RerankResults:       true,
		MaxDecisionHistory:  1000,
		MaxAuditEvents:      10000,
	}
}

// Validate checks the configuration and collects every violation.
// An empty result means the configuration is usable.
func (c Config) Validate() []error {
	var issues []error

	if c.MaxChunkSize <= 0 {
		issues = append(issues, fmt.Errorf("%w: max chunk size must be positive", ErrInvalidConfig))
	}
	if c.MinChunkSize < 0 {
		issues = append(issues, fmt.Errorf("%w: min chunk size cannot be negative", ErrInvalidConfig))
	}
	if c.MaxChunkSize <= c.MinChunkSize {
		issues = append(issues, fmt.Errorf("%w: max chunk size must be greater than min chunk size", ErrInvalidConfig))
	}
	if c.OverlapSize < 0 {
		issues = append(issues, fmt.Errorf("%w: overlap size cannot be negative", ErrInvalidConfig))
	}
	if math.Abs(c.DenseWeight+c.SparseWeight-1.0) > 1e-9 {
		issues = append(issues, fmt.Errorf("%w: dense weight + sparse weight must equal 1.0", ErrInvalidConfig))
	}
	if c.DenseWeight < 0 || c.SparseWeight < 0 {
		issues = append(issues, fmt.Errorf("%w: fusion weights cannot be negative", ErrInvalidConfig))
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		issues = append(issues, fmt.Errorf("%w: similarity threshold must be between 0 and 1", ErrInvalidConfig))
	}
	if c.MaxResults <= 0 {
		issues = append(issues, fmt.Errorf("%w: max results must be positive", ErrInvalidConfig))
	}
	if c.MaxDecisionHistory <= 0 {
		issues = append(issues, fmt.Errorf("%w: decision history capacity must be positive", ErrInvalidConfig))
	}
	if c.MaxAuditEvents <= 0 {
		issues = append(issues, fmt.Errorf("%w: audit event capacity must be positive", ErrInvalidConfig))
	}

	return issues
}
