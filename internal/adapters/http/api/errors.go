package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	errBadTimestamp = errors.New("invalid timestamp; must be RFC3339")
)
