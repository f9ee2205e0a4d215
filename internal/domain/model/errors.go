package model

import "errors"

// Sentinel kinds for event validation. Callers match with errors.Is.
var ErrValidation = errors.New("invalid event")
