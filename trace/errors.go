package trace

import "errors"

var (
	// ErrTraceNotFound indicates an unknown trace id.
	ErrTraceNotFound = errors.New("trace not found")
)
