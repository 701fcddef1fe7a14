package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - SourceDocument must not be empty
//
// NOT validated:
//   - Metadata (derived, may be zero for hand-built chunks in tests)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.SourceDocument == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptySource)
	}

	return nil
}

// Validate rejects entity maps containing fields outside the fixed set.
// An empty map is valid; extraction is advisory.
func (e Entities) Validate() error {
	for field := range e {
		if !knownField(field) {
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}
	return nil
}

func knownField(f Field) bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}
