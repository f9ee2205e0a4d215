// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voyago/reputation/internal/domain/model"
)

// EventsHandler handles event submissions.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventRequest mirrors the wire schema for POST /api/reputation/events.
// Timestamps are RFC3339; monetary amounts are decimal strings or numbers.
type eventRequest struct {
	EventID      string           `json:"event_id"`
	WalletID     string           `json:"wallet_id"`
	EventType    string           `json:"event_type"`
	Timestamp    string           `json:"timestamp"`
	BookingID    string           `json:"booking_id"`
	Trip         *tripRequest     `json:"trip_details"`
	Rating       *int             `json:"rating"`
	PointsDelta  *int             `json:"reputation_points_delta"`
	Referral     *referralRequest `json:"referral"`
	EvidenceHash string           `json:"evidence_hash"`
}

type tripRequest struct {
	Destination string          `json:"destination"`
	CountryCode string          `json:"country_code"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	AmountUSD   decimal.Decimal `json:"amount_usd"`
}

type referralRequest struct {
	Kind       string          `json:"kind"`
	Successful bool            `json:"successful"`
	AmountUSD  decimal.Decimal `json:"amount_usd"`
}

func (r eventRequest) toEvent() (*model.Event, error) {
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return nil, errBadTimestamp
	}
	ev := model.Event{
		EventID:      strings.TrimSpace(r.EventID),
		WalletID:     strings.TrimSpace(r.WalletID),
		Type:         model.EventType(r.EventType),
		Timestamp:    ts,
		BookingID:    r.BookingID,
		Rating:       r.Rating,
		PointsDelta:  r.PointsDelta,
		EvidenceHash: r.EvidenceHash,
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if r.Trip != nil {
		start, err := time.Parse(time.RFC3339, r.Trip.StartDate)
		if err != nil {
			return nil, errBadTimestamp
		}
		end, err := time.Parse(time.RFC3339, r.Trip.EndDate)
		if err != nil {
			return nil, errBadTimestamp
		}
		ev.Trip = &model.TripDetails{
			Destination: r.Trip.Destination,
			CountryCode: r.Trip.CountryCode,
			StartDate:   start,
			EndDate:     end,
			AmountUSD:   r.Trip.AmountUSD,
		}
	}
	if r.Referral != nil {
		ev.Referral = &model.ReferralDetails{
			Kind:       model.BonusKind(r.Referral.Kind),
			Successful: r.Referral.Successful,
			AmountUSD:  r.Referral.AmountUSD,
		}
	}
	return &ev, nil
}

// HandlePostEvent handles POST /api/reputation/events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	ev, err := req.toEvent()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.RecordEvent(r.Context(), ev); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "recorded", EventID: ev.EventID, Seq: ev.Seq})
}
