package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if REPUTATION_CONFIG is set
//  3. env (prefix REPUTATION_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("REPUTATION_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: REPUTATION_ADDR, REPUTATION_LEDGER_PATH, ...
	// Map env keys like REPUTATION_MAX_LEADERBOARD_LIMIT -> max_leaderboard_limit.
	envProvider := env.Provider("REPUTATION_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "reputation_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.ClockSkewSeconds < 0 {
		return fmt.Errorf("%w: clock_skew_seconds must not be negative", ErrInvalidConfig)
	}
	if c.DefaultLeaderboardLimit < 1 {
		return fmt.Errorf("%w: default_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit < c.DefaultLeaderboardLimit {
		return fmt.Errorf("%w: max_leaderboard_limit below default", ErrInvalidConfig)
	}
	return nil
}
