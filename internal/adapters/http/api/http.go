// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/voyago/reputation/internal/adapters/ledger"
	"github.com/voyago/reputation/internal/app"
	"github.com/voyago/reputation/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the engine implementation.
type Dependencies interface {
	// RecordEvent appends one reputation event to the ledger.
	RecordEvent(ctx context.Context, ev *model.Event) error

	// Read operations expose reputation data. Reputation never fails for
	// unknown wallets; it returns a zero-history view instead.
	Reputation(ctx context.Context, walletID string) (app.WalletReputation, error)
	Leaderboard(ctx context.Context, limit int) (app.Leaderboard, error)
	Catalog() app.LevelCatalog
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	eventsHandler      *EventsHandler
	walletHandler      *WalletHandler
	leaderboardHandler *LeaderboardHandler
	levelsHandler      *LevelsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		eventsHandler:      NewEventsHandler(deps),
		walletHandler:      NewWalletHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		levelsHandler:      NewLevelsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific).
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/reputation/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/api/reputation/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/api/reputation/levels", MetricsMiddleware(s.levelsHandler.HandleGetLevels, "levels"))
	mux.HandleFunc("/api/reputation/wallets/", MetricsMiddleware(s.walletHandler.HandleGetWallet, "wallet"))
}

type ackResponse struct {
	Status  string `json:"status"`
	EventID string `json:"event_id"`
	Seq     uint64 `json:"seq"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeEngineError translates engine error kinds to HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err)
	case errors.Is(err, ledger.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
