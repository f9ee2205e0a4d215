package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voyago/reputation/internal/adapters/http/api"
	"github.com/voyago/reputation/internal/adapters/ledger"
	app "github.com/voyago/reputation/internal/app"
	"github.com/voyago/reputation/internal/config"
	"github.com/voyago/reputation/internal/domain/scoring"
	"github.com/voyago/reputation/pkg/logger"
	"github.com/voyago/reputation/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since config drives the logger
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Pick the ledger backend: SQLite when a path is configured, memory otherwise.
	store, err := openLedger(cfg)
	if err != nil {
		loggerInstance.Error(ctx, "failed to open ledger", logger.String("path", cfg.LedgerPath), logger.Error(err))
		return
	}

	// Create and start the engine with configuration options
	eng := app.New(
		app.WithLogger(loggerInstance),
		app.WithLedger(store),
		app.WithScorer(newScorer(cfg)),
		app.WithLeaderboardLimits(cfg.DefaultLeaderboardLimit, cfg.MaxLeaderboardLimit),
	)
	if err := eng.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start engine", logger.Error(err))
		return
	}
	defer eng.Stop()

	// Start wallet gauge updater
	go startServiceMetricsUpdater(ctx, eng)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	apiServer := api.NewServer(eng, eng, cfg.MaxLeaderboardLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// openLedger builds the event store selected by configuration.
func openLedger(cfg *config.Config) (ledger.Ledger, error) {
	skew := ledger.WithClockSkew(time.Duration(cfg.ClockSkewSeconds) * time.Second)
	if cfg.LedgerPath == "" {
		return ledger.NewMemoryLedger(skew), nil
	}
	return ledger.NewSQLiteLedger(cfg.LedgerPath, skew)
}

// newScorer maps configured weights onto scorer options, keeping scorer
// defaults wherever a weight pair is unset.
func newScorer(cfg *config.Config) *scoring.Scorer {
	var opts []scoring.Option
	if cfg.ScoreVolumePerBooking > 0 && cfg.ScoreVolumeCap > 0 {
		opts = append(opts, scoring.WithVolumeWeights(cfg.ScoreVolumePerBooking, cfg.ScoreVolumeCap))
	}
	if cfg.ScoreCompletionWeight > 0 && cfg.ScoreDisputeWeight > 0 {
		opts = append(opts, scoring.WithRateWeights(cfg.ScoreCompletionWeight, cfg.ScoreDisputeWeight))
	}
	if cfg.ScoreUSDPerPoint > 0 && cfg.ScoreSpendCap > 0 {
		opts = append(opts, scoring.WithSpendWeights(cfg.ScoreUSDPerPoint, cfg.ScoreSpendCap))
	}
	if cfg.ScoreReferralPoints > 0 && cfg.ScoreReferralCap > 0 {
		opts = append(opts, scoring.WithReferralWeights(cfg.ScoreReferralPoints, cfg.ScoreReferralCap))
	}
	return scoring.New(opts...)
}

// startServiceMetricsUpdater periodically refreshes service-level gauges.
func startServiceMetricsUpdater(ctx context.Context, eng *app.Engine) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := eng.Stats(ctx)
			if n, ok := stats["total_wallets"].(int); ok {
				metrics.UpdateTotalWallets(n)
			}
		}
	}
}
