// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType enumerates booking lifecycle events recorded against a wallet.
type EventType string

const (
	BookingCreated   EventType = "booking_created"
	BookingPaid      EventType = "booking_paid"
	BookingCompleted EventType = "booking_completed"
	BookingCancelled EventType = "booking_cancelled"
	DisputeOpened    EventType = "dispute_opened"
	ReferralBonus    EventType = "referral_bonus"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case BookingCreated, BookingPaid, BookingCompleted, BookingCancelled, DisputeOpened, ReferralBonus:
		return true
	}
	return false
}

// BonusKind discriminates how a successful referral's amount is booked.
type BonusKind string

const (
	BonusKindCommission BonusKind = "commission"
	BonusKindBonus      BonusKind = "bonus"
)

// Rating bounds for trip reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// DefaultClockSkew is the tolerance for event timestamps slightly in the future.
const DefaultClockSkew = 5 * time.Minute

// TripDetails carries the travel facts attached to booking events.
type TripDetails struct {
	Destination string          `json:"destination"`
	CountryCode string          `json:"country_code"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	AmountUSD   decimal.Decimal `json:"amount_usd"`
}

// DurationDays returns the trip length in whole days.
func (t TripDetails) DurationDays() int {
	if t.EndDate.Before(t.StartDate) {
		return 0
	}
	return int(t.EndDate.Sub(t.StartDate).Hours() / 24)
}

// ReferralDetails carries the payout facts attached to a ReferralBonus event.
type ReferralDetails struct {
	Kind       BonusKind       `json:"kind"`
	Successful bool            `json:"successful"`
	AmountUSD  decimal.Decimal `json:"amount_usd"`
}

// Event is one immutable fact in a wallet's reputation history.
// Events are never mutated or deleted; ordering is by Timestamp with ties
// broken by Seq, the insertion sequence assigned by the ledger on append.
type Event struct {
	EventID   string    `json:"event_id"`
	WalletID  string    `json:"wallet_id"`
	Type      EventType `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	Seq       uint64    `json:"seq"`

	BookingID    string           `json:"booking_id,omitempty"`
	Trip         *TripDetails     `json:"trip_details,omitempty"`
	Rating       *int             `json:"rating,omitempty"`
	PointsDelta  *int             `json:"reputation_points_delta,omitempty"`
	Referral     *ReferralDetails `json:"referral,omitempty"`
	EvidenceHash string           `json:"evidence_hash,omitempty"`
}

// NewEvent builds an event with a fresh id and the given required fields.
func NewEvent(walletID string, typ EventType, ts time.Time) Event {
	return Event{
		EventID:   uuid.NewString(),
		WalletID:  walletID,
		Type:      typ,
		Timestamp: ts,
	}
}

// Validate checks the boundary invariants for an incoming event. It returns
// an error wrapping ErrValidation when the event is malformed. Events are
// never rejected for business reasons; the ledger stays a pure log.
func (e Event) Validate(now time.Time, skew time.Duration) error {
	if strings.TrimSpace(e.WalletID) == "" {
		return fmt.Errorf("%w: missing wallet_id", ErrValidation)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: missing or unknown event_type %q", ErrValidation, e.Type)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrValidation)
	}
	if e.Timestamp.After(now.Add(skew)) {
		return fmt.Errorf("%w: timestamp %s is in the future", ErrValidation, e.Timestamp.Format(time.RFC3339))
	}
	if e.Rating != nil && (*e.Rating < MinRating || *e.Rating > MaxRating) {
		return fmt.Errorf("%w: rating %d outside [%d,%d]", ErrValidation, *e.Rating, MinRating, MaxRating)
	}
	if e.Trip != nil {
		if e.Trip.EndDate.Before(e.Trip.StartDate) {
			return fmt.Errorf("%w: trip end_date before start_date", ErrValidation)
		}
		if e.Trip.AmountUSD.IsNegative() {
			return fmt.Errorf("%w: negative trip amount", ErrValidation)
		}
	}
	if e.Referral != nil && e.Referral.AmountUSD.IsNegative() {
		return fmt.Errorf("%w: negative referral amount", ErrValidation)
	}
	return nil
}
