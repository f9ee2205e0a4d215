package ledger

import "errors"

// ErrUnavailable marks a transient storage failure. Callers may retry; the
// engine itself performs no retries since it has no lower-level fallback.
var ErrUnavailable = errors.New("ledger unavailable")
