// Package summary folds a wallet's event history into a point-in-time
// reputation summary.
//
// A Summary is derived state: it is always reconstructable from the event
// sequence and is never stored as independent truth. Summarize is a pure
// single-pass fold with no hidden state, so re-running it over the same
// sequence yields an identical summary.
package summary

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyago/reputation/internal/domain/model"
)

// Summary aggregates a wallet's booking history.
type Summary struct {
	WalletID string `json:"wallet_id"`

	TotalBookings     int `json:"total_bookings"`
	CompletedBookings int `json:"completed_bookings"`
	CancelledBookings int `json:"cancelled_bookings"`
	DisputedBookings  int `json:"disputed_bookings"`

	TotalSpentUSD decimal.Decimal `json:"total_spent_usd"`

	// AverageRating is nil when no event carried a rating. The nil state
	// ("unavailable") must stay distinguishable from 0.0 at every layer.
	AverageRating *float64 `json:"average_rating,omitempty"`

	CountriesVisited []string `json:"countries_visited"`
	TotalTravelDays  int      `json:"total_travel_days"`

	TotalReferrals      int             `json:"total_referrals"`
	SuccessfulReferrals int             `json:"successful_referrals"`
	CommissionEarnedUSD decimal.Decimal `json:"total_commission_earned"`
	BonusEarnedUSD      decimal.Decimal `json:"total_bonus_earned"`

	FirstBookingAt *time.Time `json:"first_booking_at,omitempty"`
	LastBookingAt  *time.Time `json:"last_booking_at,omitempty"`
}

// New returns the zero-valued summary for a wallet with no history.
func New(walletID string) Summary {
	return Summary{
		WalletID:            walletID,
		TotalSpentUSD:       decimal.Zero,
		CommissionEarnedUSD: decimal.Zero,
		BonusEarnedUSD:      decimal.Zero,
		CountriesVisited:    []string{},
	}
}

// CompletionRate is completed/total in [0,1]; 0 when there are no bookings.
// The ledger accepts completions without a matching creation, so the raw
// ratio can exceed 1; the rate clamps to keep downstream weights bounded.
func (s Summary) CompletionRate() float64 {
	if s.TotalBookings == 0 {
		return 0
	}
	return clampRate(float64(s.CompletedBookings) / float64(s.TotalBookings))
}

// DisputeRate is disputed/total in [0,1]; 0 when there are no bookings.
func (s Summary) DisputeRate() float64 {
	if s.TotalBookings == 0 {
		return 0
	}
	return clampRate(float64(s.DisputedBookings) / float64(s.TotalBookings))
}

func clampRate(r float64) float64 {
	if r > 1 {
		return 1
	}
	return r
}

// CountriesCount returns the number of distinct countries visited.
func (s Summary) CountriesCount() int {
	return len(s.CountriesVisited)
}

// Summarize folds an ordered event sequence into a Summary. The fold relies
// on the ledger's (timestamp, seq) ordering and performs no re-ordering of
// its own. Final counts depend only on the multiset of events.
func Summarize(walletID string, events []model.Event) Summary {
	s := New(walletID)

	var ratingSum float64
	var ratingCount int
	seenCountries := make(map[string]struct{})

	for _, e := range events {
		switch e.Type {
		case model.BookingCreated:
			s.TotalBookings++
			ts := e.Timestamp
			if s.FirstBookingAt == nil {
				s.FirstBookingAt = &ts
			}
			s.LastBookingAt = &ts

		case model.BookingPaid:
			// No counter of its own; payment only refreshes activity.
			ts := e.Timestamp
			s.LastBookingAt = &ts

		case model.BookingCompleted:
			s.CompletedBookings++
			if e.Trip != nil {
				if cc := e.Trip.CountryCode; cc != "" {
					if _, ok := seenCountries[cc]; !ok {
						seenCountries[cc] = struct{}{}
						s.CountriesVisited = append(s.CountriesVisited, cc)
					}
				}
				s.TotalTravelDays += e.Trip.DurationDays()
				s.TotalSpentUSD = s.TotalSpentUSD.Add(e.Trip.AmountUSD)
			}

		case model.BookingCancelled:
			s.CancelledBookings++

		case model.DisputeOpened:
			s.DisputedBookings++

		case model.ReferralBonus:
			s.TotalReferrals++
			if e.Referral != nil && e.Referral.Successful {
				s.SuccessfulReferrals++
				switch e.Referral.Kind {
				case model.BonusKindCommission:
					s.CommissionEarnedUSD = s.CommissionEarnedUSD.Add(e.Referral.AmountUSD)
				case model.BonusKindBonus:
					s.BonusEarnedUSD = s.BonusEarnedUSD.Add(e.Referral.AmountUSD)
				}
			}
		}

		if e.Rating != nil {
			ratingSum += float64(*e.Rating)
			ratingCount++
		}
	}

	if ratingCount > 0 {
		avg := ratingSum / float64(ratingCount)
		s.AverageRating = &avg
	}
	return s
}
