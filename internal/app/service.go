// Package app provides the core engine that implements the operations
// exposed by the HTTP API: event recording, wallet summaries, the global
// leaderboard, and the level catalog.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyago/reputation/internal/adapters/ledger"
	"github.com/voyago/reputation/internal/domain/achievement"
	"github.com/voyago/reputation/internal/domain/level"
	"github.com/voyago/reputation/internal/domain/model"
	"github.com/voyago/reputation/internal/domain/rank"
	"github.com/voyago/reputation/internal/domain/referral"
	"github.com/voyago/reputation/internal/domain/scoring"
	"github.com/voyago/reputation/internal/domain/summary"
	"github.com/voyago/reputation/pkg/logger"
	"github.com/voyago/reputation/pkg/metrics"
)

// Default pagination bounds for leaderboard queries.
const (
	defaultLeaderboardLimit = 10
	defaultMaxLimit         = 100
)

// WalletReputation is the full reputation view for one wallet.
type WalletReputation struct {
	Summary      summary.Summary        `json:"reputation_summary"`
	Score        int                    `json:"reputation_score"`
	Level        level.Level            `json:"reputation_level"`
	NextLevel    *level.Level           `json:"next_level,omitempty"`
	PointsToNext int                    `json:"points_to_next_level"`
	Achievements achievement.Evaluation `json:"achievements"`
	Referral     ReferralStatus         `json:"referral_status"`
	Rank         *int                   `json:"rank,omitempty"`
}

// ReferralStatus reports a wallet's standing in the referral program.
type ReferralStatus struct {
	TotalReferrals      int             `json:"total_referrals"`
	SuccessfulReferrals int             `json:"successful_referrals"`
	TierLabel           string          `json:"tier,omitempty"`
	CommissionPerUSD    decimal.Decimal `json:"commission_usd_per_booking"`
	CommissionEarnedUSD decimal.Decimal `json:"total_commission_earned"`
	BonusEarnedUSD      decimal.Decimal `json:"total_bonus_earned"`
}

// Leaderboard is the ranked view across all wallets.
type Leaderboard struct {
	Entries           []rank.Entry `json:"entries"`
	TotalParticipants int          `json:"total_participants"`
}

// LevelCatalog pairs the tier catalog with scoring factor descriptions.
type LevelCatalog struct {
	Levels         []level.Level     `json:"levels"`
	ScoringFactors map[string]string `json:"scoring_factors"`
}

// Engine implements the reputation operations over an injected ledger.
// Aggregation, scoring and achievement evaluation are pure; the engine adds
// a per-wallet summary cache that is invalidated (never patched) whenever a
// new event for that wallet is appended.
type Engine struct {
	mu    sync.RWMutex
	cache map[string]cachedSummary
	gen   map[string]uint64

	store  ledger.Ledger
	scorer *scoring.Scorer
	levels level.Catalog
	tiers  referral.Table

	defaultLimit int
	maxLimit     int

	started bool
	logger  logger.Logger
}

type cachedSummary struct {
	sum summary.Summary
	gen uint64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLedger injects the event store.
func WithLedger(store ledger.Ledger) Option {
	return func(e *Engine) {
		if store != nil {
			e.store = store
		}
	}
}

// WithScorer overrides the default scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithLevelCatalog overrides the default level catalog.
func WithLevelCatalog(c level.Catalog) Option {
	return func(e *Engine) { e.levels = c }
}

// WithReferralTable overrides the default referral tier table.
func WithReferralTable(t referral.Table) Option {
	return func(e *Engine) { e.tiers = t }
}

// WithLeaderboardLimits sets the default and maximum leaderboard page sizes.
func WithLeaderboardLimits(def, max int) Option {
	return func(e *Engine) {
		if def > 0 {
			e.defaultLimit = def
		}
		if max > 0 {
			e.maxLimit = max
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New constructs an Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		cache:        make(map[string]cachedSummary),
		gen:          make(map[string]uint64),
		scorer:       scoring.New(),
		levels:       level.Default(),
		tiers:        referral.Default(),
		defaultLimit: defaultLeaderboardLimit,
		maxLimit:     defaultMaxLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start verifies the static catalogs and readies the engine. Catalog
// integrity failures are configuration errors and abort startup; they never
// surface per request.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("engine")
	}
	if err := e.levels.Validate(); err != nil {
		return fmt.Errorf("level catalog check failed: %w", err)
	}
	if err := e.tiers.Validate(); err != nil {
		return fmt.Errorf("referral table check failed: %w", err)
	}
	if e.store == nil {
		e.store = ledger.NewMemoryLedger()
		e.logger.Info(ctx, "using in-memory ledger")
	}

	e.started = true
	e.logger.Info(ctx, "reputation engine started",
		logger.Int("levels", len(e.levels.Levels())),
		logger.Int("achievements", achievement.Count()),
	)
	return nil
}

// Stop releases the ledger.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}
	if err := e.store.Close(); err != nil {
		e.logger.Warn(context.Background(), "ledger close failed", logger.Error(err))
	}
	e.started = false
	e.logger.Info(context.Background(), "reputation engine stopped")
}

// RecordEvent validates and appends one event, then invalidates the wallet's
// cached summary. Validation failures wrap model.ErrValidation; storage
// failures wrap ledger.ErrUnavailable.
func (e *Engine) RecordEvent(ctx context.Context, ev *model.Event) error {
	start := time.Now()
	if err := e.store.Append(ctx, ev); err != nil {
		metrics.RecordEventRejected()
		return err
	}
	metrics.RecordEventRecorded()
	metrics.RecordAppendLatency(float64(time.Since(start).Milliseconds()))

	e.mu.Lock()
	delete(e.cache, ev.WalletID)
	e.gen[ev.WalletID]++
	e.mu.Unlock()

	e.logger.Debug(ctx, "event recorded",
		logger.String("wallet", ev.WalletID),
		logger.String("type", string(ev.Type)),
		logger.String("event_id", ev.EventID),
	)

	if n, err := e.store.Count(ctx); err == nil {
		metrics.UpdateTotalWallets(n)
	}
	return nil
}

// Summary returns the wallet's point-in-time summary. A wallet with no
// events yields the zero-valued summary, never an error.
func (e *Engine) Summary(ctx context.Context, walletID string) (summary.Summary, error) {
	e.mu.RLock()
	cached, ok := e.cache[walletID]
	gen := e.gen[walletID]
	e.mu.RUnlock()
	if ok && cached.gen == gen {
		metrics.RecordSummaryCacheHit()
		return cached.sum, nil
	}
	metrics.RecordSummaryCacheMiss()

	start := time.Now()
	events, err := e.store.EventsFor(ctx, walletID)
	if err != nil {
		return summary.Summary{}, err
	}
	sum := summary.Summarize(walletID, events)
	metrics.RecordSummaryComputed()
	metrics.RecordSummaryLatency(float64(time.Since(start).Milliseconds()))

	// Store only if no append invalidated the wallet while folding.
	e.mu.Lock()
	if e.gen[walletID] == gen {
		e.cache[walletID] = cachedSummary{sum: sum, gen: gen}
	}
	e.mu.Unlock()
	return sum, nil
}

// Reputation returns the full reputation view for a wallet: summary, score,
// level, achievements, referral standing, and global rank when present.
func (e *Engine) Reputation(ctx context.Context, walletID string) (WalletReputation, error) {
	sum, err := e.Summary(ctx, walletID)
	if err != nil {
		return WalletReputation{}, err
	}

	score := e.scorer.Score(sum)
	lvl := e.levels.ForScore(score)
	rep := WalletReputation{
		Summary:      sum,
		Score:        score,
		Level:        lvl,
		PointsToNext: e.levels.PointsToNext(score),
		Achievements: achievement.Evaluate(sum),
		Referral:     e.referralStatus(sum),
	}
	if next, ok := e.levels.Next(score); ok {
		rep.NextLevel = &next
	}

	ranked, err := e.rankedEntries(ctx)
	if err != nil {
		return WalletReputation{}, err
	}
	if r, ok := rank.RankOf(walletID, ranked); ok {
		rep.Rank = &r
	}
	return rep, nil
}

func (e *Engine) referralStatus(sum summary.Summary) ReferralStatus {
	st := ReferralStatus{
		TotalReferrals:      sum.TotalReferrals,
		SuccessfulReferrals: sum.SuccessfulReferrals,
		CommissionPerUSD:    e.tiers.CommissionRate(sum.TotalReferrals),
		CommissionEarnedUSD: sum.CommissionEarnedUSD,
		BonusEarnedUSD:      sum.BonusEarnedUSD,
	}
	if tier, ok := e.tiers.TierFor(sum.TotalReferrals); ok {
		st.TierLabel = tier.Label
	}
	return st
}

// Leaderboard ranks every wallet with at least one event. A non-positive
// limit selects the default; limits above the configured maximum clamp to
// one maximum-sized page, and the page never exceeds the participant count.
// Entries are collected from a single pass over the wallet set before
// sorting begins, so one ranking never mixes partially updated summaries.
func (e *Engine) Leaderboard(ctx context.Context, limit int) (Leaderboard, error) {
	start := time.Now()
	metrics.RecordLeaderboardQuery()

	if limit <= 0 {
		limit = e.defaultLimit
	}
	if limit > e.maxLimit {
		limit = e.maxLimit
	}

	ranked, err := e.rankedEntries(ctx)
	if err != nil {
		return Leaderboard{}, err
	}

	metrics.RecordLeaderboardLatency(float64(time.Since(start).Milliseconds()))
	return Leaderboard{
		Entries:           rank.Top(ranked, limit),
		TotalParticipants: len(ranked),
	}, nil
}

// rankedEntries snapshots all wallet summaries and ranks them.
func (e *Engine) rankedEntries(ctx context.Context) ([]rank.Entry, error) {
	wallets, err := e.store.Wallets(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]rank.Entry, 0, len(wallets))
	for _, w := range wallets {
		sum, err := e.Summary(ctx, w)
		if err != nil {
			return nil, err
		}
		score := e.scorer.Score(sum)
		entries = append(entries, rank.Entry{
			WalletID:          w,
			Score:             score,
			LevelID:           e.levels.ForScore(score).ID,
			TotalBookings:     sum.TotalBookings,
			CompletedBookings: sum.CompletedBookings,
			AverageRating:     sum.AverageRating,
			CountriesCount:    sum.CountriesCount(),
		})
	}
	return rank.Rank(entries), nil
}

// Catalog returns the level catalog and scoring factor descriptions.
func (e *Engine) Catalog() LevelCatalog {
	return LevelCatalog{
		Levels:         e.levels.Levels(),
		ScoringFactors: scoring.Factors(),
	}
}

// Stats returns service statistics for monitoring.
func (e *Engine) Stats(ctx context.Context) map[string]interface{} {
	e.mu.RLock()
	cachedWallets := len(e.cache)
	started := e.started
	e.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        started,
		"cached_wallets": cachedWallets,
		"achievements":   achievement.Count(),
		"levels":         len(e.levels.Levels()),
		"max_limit":      e.maxLimit,
		"default_limit":  e.defaultLimit,
	}
	if started {
		if n, err := e.store.Count(ctx); err == nil {
			stats["total_wallets"] = n
			metrics.UpdateTotalWallets(n)
		}
	}
	return stats
}
