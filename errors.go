package avrender

import "errors"

// Errors returned by New when construction cannot proceed. The mutator
// surface never returns errors; it reports decline through its bool results.
var (
	ErrNilBackend = errors.New("avrender: backend is nil")
	ErrBadOption  = errors.New("avrender: invalid option")
)
