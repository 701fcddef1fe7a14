package rules

import "errors"

var (
	// ErrInvalidRule indicates a rule that fails construction-time checks.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrDuplicateRule indicates a rule id already present in the validator.
	ErrDuplicateRule = errors.New("duplicate rule id")
)
