package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/voyago/reputation/internal/domain/model"
)

// MemoryLedger is an in-process Ledger used as the default store and as the
// test fixture. Appends are serialized under a single writer lock, which
// preserves the insertion-order invariant per wallet; reads take a read lock
// and return copies, so callers can restart iteration freely.
type MemoryLedger struct {
	mu      sync.RWMutex
	nextSeq uint64
	events  map[string][]model.Event

	cfg settings
}

// NewMemoryLedger constructs an empty in-memory ledger.
func NewMemoryLedger(opts ...Option) *MemoryLedger {
	return &MemoryLedger{
		nextSeq: 1,
		events:  make(map[string][]model.Event),
		cfg:     newSettings(opts...),
	}
}

// Append implements Ledger.Append.
func (l *MemoryLedger) Append(ctx context.Context, e *model.Event) error {
	if err := e.Validate(l.cfg.now(), l.cfg.clockSkew); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e.Seq = l.nextSeq
	l.nextSeq++
	l.events[e.WalletID] = append(l.events[e.WalletID], *e)
	return nil
}

// EventsFor implements Ledger.EventsFor.
func (l *MemoryLedger) EventsFor(ctx context.Context, walletID string) ([]model.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	src := l.events[walletID]
	out := make([]model.Event, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

// Wallets implements Ledger.Wallets.
func (l *MemoryLedger) Wallets(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, 0, len(l.events))
	for w := range l.events {
		out = append(out, w)
	}
	sort.Strings(out)
	return out, nil
}

// Count implements Ledger.Count.
func (l *MemoryLedger) Count(ctx context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events), nil
}

// Close implements Ledger.Close. The in-memory ledger holds no resources.
func (l *MemoryLedger) Close() error { return nil }
