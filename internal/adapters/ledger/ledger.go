// Package ledger defines the append-only reputation event store.
//
// The ledger exclusively owns events. Invariants:
//   - Append-only: no update, no delete, ever.
//   - Immutable: once written an event is never changed.
//   - Ordered: reads return events by (timestamp, insertion sequence).
//
// Events are validated at the boundary and never rejected for business
// reasons; the ledger is a pure log. Corrections happen by appending new
// events, not by editing history.
package ledger

import (
	"context"
	"time"

	"github.com/voyago/reputation/internal/domain/model"
)

// Ledger provides append and ordered-read access to the event log.
type Ledger interface {
	// Append validates e, assigns its insertion sequence, and persists it.
	// Returns an error wrapping model.ErrValidation for malformed events
	// and ErrUnavailable for storage failures.
	Append(ctx context.Context, e *model.Event) error

	// EventsFor returns the full ordered event sequence for a wallet.
	// An unknown wallet yields an empty slice, never an error.
	EventsFor(ctx context.Context, walletID string) ([]model.Event, error)

	// Wallets returns every wallet id with at least one event.
	Wallets(ctx context.Context) ([]string, error)

	// Count returns the number of wallets tracked by the ledger.
	Count(ctx context.Context) (int, error)

	// Close releases underlying resources.
	Close() error
}

// Option applies a configuration option to a ledger implementation.
type Option func(*settings)

type settings struct {
	clockSkew time.Duration
	now       func() time.Time
}

func newSettings(opts ...Option) settings {
	s := settings{
		clockSkew: model.DefaultClockSkew,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithClockSkew sets the tolerance for future-dated event timestamps.
func WithClockSkew(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.clockSkew = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
