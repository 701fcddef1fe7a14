package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyText indicates a chunk's text is empty.
	ErrEmptyText = errors.New("chunk text cannot be empty")

	// ErrEmptySource indicates a chunk has no source document.
	ErrEmptySource = errors.New("source document cannot be empty")

	// ErrUnknownField indicates an entity field outside the fixed set.
	ErrUnknownField = errors.New("unknown entity field")

	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)
