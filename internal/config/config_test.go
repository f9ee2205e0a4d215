package config_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/voyago/reputation/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.LedgerPath, convey.ShouldBeEmpty)
			convey.So(cfg.ClockSkewSeconds, convey.ShouldEqual, 300)
			convey.So(cfg.DefaultLeaderboardLimit, convey.ShouldEqual, 10)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
		})
	})
}
