// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() defaults and Load(ctx) for the layered build.
// - External errors are wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LedgerPath points at the SQLite ledger database. Empty selects the
	// in-memory ledger.
	LedgerPath string `koanf:"ledger_path"`

	// ClockSkewSeconds tolerates slightly future-dated event timestamps.
	ClockSkewSeconds int `koanf:"clock_skew_seconds"`

	// DefaultLeaderboardLimit applies when GET /leaderboard omits limit.
	DefaultLeaderboardLimit int `koanf:"default_leaderboard_limit"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Scoring weights. Zero values fall back to the scorer defaults.
	ScoreVolumePerBooking int `koanf:"score_volume_per_booking"`
	ScoreVolumeCap        int `koanf:"score_volume_cap"`
	ScoreCompletionWeight int `koanf:"score_completion_weight"`
	ScoreDisputeWeight    int `koanf:"score_dispute_weight"`
	ScoreUSDPerPoint      int `koanf:"score_usd_per_point"`
	ScoreSpendCap         int `koanf:"score_spend_cap"`
	ScoreReferralPoints   int `koanf:"score_referral_points"`
	ScoreReferralCap      int `koanf:"score_referral_cap"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		Addr:                    ":9090",
		LedgerPath:              "",
		ClockSkewSeconds:        300,
		DefaultLeaderboardLimit: 10,
		MaxLeaderboardLimit:     100,
	}
}
