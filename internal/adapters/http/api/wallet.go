// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// WalletHandler handles per-wallet reputation reads.
type WalletHandler struct {
	deps Dependencies
}

// NewWalletHandler creates a new wallet handler.
func NewWalletHandler(deps Dependencies) *WalletHandler {
	return &WalletHandler{deps: deps}
}

// HandleGetWallet handles GET /api/reputation/wallets/{wallet} requests.
// Unknown wallets yield a zero-history view, never a 404: the presentation
// layer must not need wallet-existence branching.
func (h *WalletHandler) HandleGetWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	walletID := strings.TrimPrefix(r.URL.Path, "/api/reputation/wallets/")
	if walletID == "" || strings.Contains(walletID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	rep, err := h.deps.Reputation(r.Context(), walletID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
