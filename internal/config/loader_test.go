package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/voyago/reputation/internal/config"
)

func clearConfigEnvVars() {
	vars := []string{
		"REPUTATION_CONFIG",
		"REPUTATION_LOG_LEVEL",
		"REPUTATION_ADDR",
		"REPUTATION_LEDGER_PATH",
		"REPUTATION_CLOCK_SKEW_SECONDS",
		"REPUTATION_DEFAULT_LEADERBOARD_LIMIT",
		"REPUTATION_MAX_LEADERBOARD_LIMIT",
		"REPUTATION_SCORE_VOLUME_PER_BOOKING",
		"REPUTATION_SCORE_VOLUME_CAP",
	}
	for _, v := range vars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp config: %v", err)
	}
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DefaultLeaderboardLimit, convey.ShouldEqual, 10)
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
				convey.So(cfg.ClockSkewSeconds, convey.ShouldEqual, 300)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("REPUTATION_ADDR", ":8080")
			_ = os.Setenv("REPUTATION_LEDGER_PATH", "/tmp/reputation.db")
			_ = os.Setenv("REPUTATION_MAX_LEADERBOARD_LIMIT", "50")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LedgerPath, convey.ShouldEqual, "/tmp/reputation.db")
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":7070"
ledger_path: "/var/lib/reputation/ledger.db"
default_leaderboard_limit: 25
max_leaderboard_limit: 250
`
			tmpFile := createTempConfigFile(t, yamlContent)

			_ = os.Setenv("REPUTATION_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LedgerPath, convey.ShouldEqual, "/var/lib/reputation/ledger.db")
				convey.So(cfg.DefaultLeaderboardLimit, convey.ShouldEqual, 25)
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 250)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":7070"
default_leaderboard_limit: 25
max_leaderboard_limit: 250
`
			tmpFile := createTempConfigFile(t, yamlContent)

			_ = os.Setenv("REPUTATION_CONFIG", tmpFile)
			_ = os.Setenv("REPUTATION_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DefaultLeaderboardLimit, convey.ShouldEqual, 25)
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 250)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":7070"
`
			tmpFile := createTempConfigFile(t, yamlContent)

			_ = os.Setenv("REPUTATION_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.DefaultLeaderboardLimit, convey.ShouldEqual, 10)
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(t, invalidYaml)

			_ = os.Setenv("REPUTATION_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("REPUTATION_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("REPUTATION_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the max limit drops below the default", func() {
			_ = os.Setenv("REPUTATION_MAX_LEADERBOARD_LIMIT", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the clock skew is negative", func() {
			_ = os.Setenv("REPUTATION_CLOCK_SKEW_SECONDS", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
