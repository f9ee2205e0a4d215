// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// LevelsHandler serves the static level catalog.
type LevelsHandler struct {
	deps Dependencies
}

// NewLevelsHandler creates a new levels handler.
func NewLevelsHandler(deps Dependencies) *LevelsHandler {
	return &LevelsHandler{deps: deps}
}

// HandleGetLevels handles GET /api/reputation/levels requests.
func (h *LevelsHandler) HandleGetLevels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Catalog())
}
