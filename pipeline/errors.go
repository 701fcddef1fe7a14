package pipeline

import "errors"

var (
	// ErrEmptyDocument indicates an ingest call without usable text.
	ErrEmptyDocument = errors.New("document text is empty")

	// ErrEmptySource indicates an ingest call without a source identifier.
	ErrEmptySource = errors.New("source identifier is empty")

	// ErrEmptyQuery indicates a query call without usable text.
	ErrEmptyQuery = errors.New("query text is empty")

	// ErrChunkerRequired indicates a missing chunker dependency.
	ErrChunkerRequired = errors.New("chunker is required")

	// ErrIndexRequired indicates a missing index dependency.
	ErrIndexRequired = errors.New("index is required")

	// ErrExtractorRequired indicates a missing extractor dependency.
	ErrExtractorRequired = errors.New("extractor is required")

	// ErrValidatorRequired indicates a missing validator dependency.
	ErrValidatorRequired = errors.New("validator is required")

	// ErrEngineRequired indicates a missing decision engine dependency.
	ErrEngineRequired = errors.New("decision engine is required")

	// ErrMapperRequired indicates a missing traceability mapper dependency.
	ErrMapperRequired = errors.New("traceability mapper is required")
)
