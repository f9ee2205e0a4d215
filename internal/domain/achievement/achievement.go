// Package achievement evaluates the fixed milestone catalog against a
// reputation summary.
//
// The catalog is closed and versioned. Unlock state is a pure predicate over
// the current summary with no hysteresis: there is no persisted "unlocked"
// flag, and adding a new achievement never retroactively changes the status
// of existing ones.
package achievement

import (
	"github.com/shopspring/decimal"

	"github.com/voyago/reputation/internal/domain/summary"
)

// Achievement is one catalog entry. Condition and progress are plain
// functions keyed by id; there is no inheritance hierarchy to dispatch.
type Achievement struct {
	ID          string
	Name        string
	Description string
	MaxProgress float64

	condition func(summary.Summary) bool
	progress  func(summary.Summary) float64
}

// Status reports one achievement's state against a summary. Progress is
// clamped to [0, MaxProgress] even when the underlying stat exceeds the
// threshold, so Ratio never leaves [0,1].
type Status struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Progress    float64 `json:"progress"`
	MaxProgress float64 `json:"max_progress"`
	Ratio       float64 `json:"ratio"`
}

// Evaluation partitions the catalog for one summary.
type Evaluation struct {
	Unlocked []Status `json:"unlocked"`
	Locked   []Status `json:"locked"`
}

// highRollerThresholdUSD is the High Roller spend threshold.
const highRollerThresholdUSD = 10_000

// catalog is the full achievement table, in display order.
var catalog = []Achievement{
	{
		ID: "first_booking", Name: "First Steps",
		Description: "Complete your first booking",
		MaxProgress: 1,
		condition:   func(s summary.Summary) bool { return s.TotalBookings >= 1 },
		progress:    func(s summary.Summary) float64 { return float64(s.TotalBookings) },
	},
	{
		ID: "trusted_traveler", Name: "Trusted Traveler",
		Description: "Complete 5 bookings with 4.5+ rating",
		MaxProgress: 5,
		condition: func(s summary.Summary) bool {
			return s.TotalBookings >= 5 && s.AverageRating != nil && *s.AverageRating >= 4.5
		},
		progress: func(s summary.Summary) float64 { return float64(s.TotalBookings) },
	},
	{
		ID: "explorer", Name: "Explorer",
		Description: "Visit 3 different countries",
		MaxProgress: 3,
		condition:   func(s summary.Summary) bool { return s.CountriesCount() >= 3 },
		progress:    func(s summary.Summary) float64 { return float64(s.CountriesCount()) },
	},
	{
		ID: "high_roller", Name: "High Roller",
		Description: "Spend $10,000+ on travel",
		MaxProgress: highRollerThresholdUSD,
		condition: func(s summary.Summary) bool {
			return s.TotalSpentUSD.GreaterThanOrEqual(decimal.NewFromInt(highRollerThresholdUSD))
		},
		progress: func(s summary.Summary) float64 { return s.TotalSpentUSD.InexactFloat64() },
	},
	{
		ID: "perfect_record", Name: "Perfect Record",
		Description: "100% completion rate with 10+ bookings",
		MaxProgress: 10,
		condition: func(s summary.Summary) bool {
			return s.TotalBookings >= 10 && s.CompletedBookings == s.TotalBookings
		},
		progress: func(s summary.Summary) float64 { return float64(s.TotalBookings) },
	},
	{
		ID: "referral_master", Name: "Referral Master",
		Description: "Successfully refer 5 travelers",
		MaxProgress: 5,
		condition:   func(s summary.Summary) bool { return s.SuccessfulReferrals >= 5 },
		progress:    func(s summary.Summary) float64 { return float64(s.SuccessfulReferrals) },
	},
	{
		ID: "seasoned_traveler", Name: "Seasoned Traveler",
		Description: "Complete 25 bookings",
		MaxProgress: 25,
		condition:   func(s summary.Summary) bool { return s.TotalBookings >= 25 },
		progress:    func(s summary.Summary) float64 { return float64(s.TotalBookings) },
	},
	{
		ID: "dispute_free", Name: "Dispute Free",
		Description: "50+ bookings with 0 disputes",
		MaxProgress: 50,
		condition: func(s summary.Summary) bool {
			return s.TotalBookings >= 50 && s.DisputedBookings == 0
		},
		progress: func(s summary.Summary) float64 { return float64(s.TotalBookings) },
	},
}

// Count returns the catalog size.
func Count() int { return len(catalog) }

// Evaluate partitions the catalog by each entry's condition. Locked entries
// carry clamped progress for UI display.
func Evaluate(s summary.Summary) Evaluation {
	var ev Evaluation
	for _, a := range catalog {
		st := a.status(s)
		if a.condition(s) {
			ev.Unlocked = append(ev.Unlocked, st)
		} else {
			ev.Locked = append(ev.Locked, st)
		}
	}
	return ev
}

func (a Achievement) status(s summary.Summary) Status {
	p := a.progress(s)
	if p < 0 {
		p = 0
	}
	if p > a.MaxProgress {
		p = a.MaxProgress
	}
	return Status{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Progress:    p,
		MaxProgress: a.MaxProgress,
		Ratio:       p / a.MaxProgress,
	}
}
