package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrNilDocument   = errors.New("nil document")
	ErrNoAdapters    = errors.New("no adapters registered")
	ErrInvalidConfig = errors.New("invalid configuration")
)
