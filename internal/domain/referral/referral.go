// Package referral maps cumulative referral counts to commission tiers.
package referral

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier is one commission band: an inclusive lower bound on the referral
// count and the per-booking commission it pays.
type Tier struct {
	MinReferrals  int             `json:"min_referrals"`
	CommissionUSD decimal.Decimal `json:"commission_usd_per_booking"`
	Label         string          `json:"label"`
}

// Table is an ascending ordered threshold table.
type Table struct {
	tiers []Tier
}

// Default returns the production referral tier table.
func Default() Table {
	return Table{tiers: []Tier{
		{MinReferrals: 1, CommissionUSD: decimal.NewFromInt(10), Label: "1-5 referrals"},
		{MinReferrals: 6, CommissionUSD: decimal.NewFromInt(15), Label: "6-15 referrals"},
		{MinReferrals: 16, CommissionUSD: decimal.NewFromInt(20), Label: "16+ referrals"},
	}}
}

// NewTable builds a table from explicit tiers. Callers must run Validate
// before serving lookups.
func NewTable(tiers []Tier) Table {
	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return Table{tiers: cp}
}

// Validate checks the table is non-empty, strictly ascending, and starts at
// a positive threshold. A failure is a configuration error fatal at startup.
func (t Table) Validate() error {
	if len(t.tiers) == 0 {
		return fmt.Errorf("%w: empty table", ErrBadTable)
	}
	if t.tiers[0].MinReferrals < 1 {
		return fmt.Errorf("%w: first threshold %d must be >= 1", ErrBadTable, t.tiers[0].MinReferrals)
	}
	for i := 1; i < len(t.tiers); i++ {
		if t.tiers[i].MinReferrals <= t.tiers[i-1].MinReferrals {
			return fmt.Errorf("%w: thresholds not ascending at index %d", ErrBadTable, i)
		}
	}
	for _, tier := range t.tiers {
		if tier.CommissionUSD.IsNegative() {
			return fmt.Errorf("%w: negative commission for %q", ErrBadTable, tier.Label)
		}
	}
	return nil
}

// Tiers returns a copy of the table in ascending order.
func (t Table) Tiers() []Tier {
	cp := make([]Tier, len(t.tiers))
	copy(cp, t.tiers)
	return cp
}

// CommissionRate returns the per-booking commission for a cumulative referral
// count: the highest threshold not exceeding totalReferrals. A count below
// the first threshold pays zero.
func (t Table) CommissionRate(totalReferrals int) decimal.Decimal {
	rate := decimal.Zero
	for _, tier := range t.tiers {
		if totalReferrals < tier.MinReferrals {
			break
		}
		rate = tier.CommissionUSD
	}
	return rate
}

// TierFor returns the matching tier, or false when the count is below the
// first threshold.
func (t Table) TierFor(totalReferrals int) (Tier, bool) {
	var match Tier
	found := false
	for _, tier := range t.tiers {
		if totalReferrals < tier.MinReferrals {
			break
		}
		match = tier
		found = true
	}
	return match, found
}
