package parser

import "errors"

var (
	// ErrUnsupportedFormat indicates the file extension has no registered parser.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyDocument indicates parsing succeeded but produced no text.
	ErrEmptyDocument = errors.New("document contains no extractable text")
)
