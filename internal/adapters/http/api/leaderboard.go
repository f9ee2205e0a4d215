// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps Dependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetLeaderboard handles GET /api/reputation/leaderboard?limit=N.
// An omitted limit selects the engine default; a non-positive or non-numeric
// limit is a client error; limits above the cap are clamped.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if n > h.maxLimit {
			n = h.maxLimit
		}
		limit = n
	}
	board, err := h.deps.Leaderboard(r.Context(), limit)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}
