// Package level defines the static tier catalog and score-to-tier resolution.
//
// The catalog is immutable configuration loaded once at process start; its
// integrity check runs before serving traffic so per-request lookups can
// assume a well-formed catalog.
package level

import (
	"fmt"

	"github.com/voyago/reputation/internal/domain/scoring"
)

// Level is a named band of scores with associated benefits.
type Level struct {
	ID          string   `json:"level"`
	DisplayName string   `json:"name"`
	MinScore    int      `json:"min_score"`
	MaxScore    int      `json:"max_score"`
	Benefits    []string `json:"benefits"`
}

// Contains reports whether score falls inside the level's band.
func (l Level) Contains(score int) bool {
	return score >= l.MinScore && score <= l.MaxScore
}

// Catalog is an ordered set of contiguous, non-overlapping levels.
type Catalog struct {
	levels []Level
}

// Default returns the production tier catalog.
func Default() Catalog {
	return Catalog{levels: []Level{
		{
			ID: "NEW", DisplayName: "New Traveler", MinScore: 0, MaxScore: 24,
			Benefits: []string{
				"Basic booking access",
				"Standard customer support",
			},
		},
		{
			ID: "BRONZE", DisplayName: "Bronze Traveler", MinScore: 25, MaxScore: 99,
			Benefits: []string{
				"Priority booking",
				"Enhanced customer support",
				"5% referral bonus",
			},
		},
		{
			ID: "SILVER", DisplayName: "Silver Traveler", MinScore: 100, MaxScore: 199,
			Benefits: []string{
				"VIP booking access",
				"24/7 customer support",
				"10% referral bonus",
				"Exclusive travel deals",
			},
		},
		{
			ID: "GOLD", DisplayName: "Gold Traveler", MinScore: 200, MaxScore: 499,
			Benefits: []string{
				"Premium booking access",
				"Personal travel concierge",
				"15% referral bonus",
				"Exclusive travel deals",
				"Priority dispute resolution",
			},
		},
		{
			ID: "PLATINUM", DisplayName: "Platinum Traveler", MinScore: 500, MaxScore: 999,
			Benefits: []string{
				"Luxury booking access",
				"Dedicated travel manager",
				"20% referral bonus",
				"Exclusive travel deals",
				"Priority dispute resolution",
				"Custom travel packages",
			},
		},
		{
			ID: "DIAMOND", DisplayName: "Diamond Traveler", MinScore: 1000, MaxScore: 9999,
			Benefits: []string{
				"Ultimate booking access",
				"Personal travel assistant",
				"25% referral bonus",
				"Exclusive travel deals",
				"Priority dispute resolution",
				"Custom travel packages",
				"VIP airport services",
			},
		},
	}}
}

// NewCatalog builds a catalog from explicit levels. Callers must run
// Validate before serving lookups.
func NewCatalog(levels []Level) Catalog {
	cp := make([]Level, len(levels))
	copy(cp, levels)
	return Catalog{levels: cp}
}

// Validate checks the catalog integrity: ascending contiguous bands starting
// at zero, no gaps or overlaps, and coverage of every attainable score.
// A failure here is a configuration error and must abort startup.
func (c Catalog) Validate() error {
	if len(c.levels) == 0 {
		return fmt.Errorf("%w: empty catalog", ErrBadCatalog)
	}
	if c.levels[0].MinScore != 0 {
		return fmt.Errorf("%w: first level %q starts at %d, want 0", ErrBadCatalog, c.levels[0].ID, c.levels[0].MinScore)
	}
	for i, l := range c.levels {
		if l.MaxScore < l.MinScore {
			return fmt.Errorf("%w: level %q has inverted range [%d,%d]", ErrBadCatalog, l.ID, l.MinScore, l.MaxScore)
		}
		if i == 0 {
			continue
		}
		prev := c.levels[i-1]
		switch {
		case l.MinScore > prev.MaxScore+1:
			return fmt.Errorf("%w: gap between %q and %q at score %d", ErrBadCatalog, prev.ID, l.ID, prev.MaxScore+1)
		case l.MinScore < prev.MaxScore+1:
			return fmt.Errorf("%w: overlap between %q and %q", ErrBadCatalog, prev.ID, l.ID)
		}
	}
	if top := c.levels[len(c.levels)-1].MaxScore; top < scoring.MaxScore {
		return fmt.Errorf("%w: catalog tops out at %d, must cover %d", ErrBadCatalog, top, scoring.MaxScore)
	}
	return nil
}

// Levels returns a copy of the catalog in ascending order.
func (c Catalog) Levels() []Level {
	cp := make([]Level, len(c.levels))
	copy(cp, c.levels)
	return cp
}

// ForScore returns the unique level whose band contains score. Scores below
// zero clamp to the first level and scores above the top band clamp to the
// last; a validated catalog has no interior holes.
func (c Catalog) ForScore(score int) Level {
	for _, l := range c.levels {
		if l.Contains(score) {
			return l
		}
	}
	if score < 0 {
		return c.levels[0]
	}
	return c.levels[len(c.levels)-1]
}

// Next returns the level with the smallest MinScore strictly greater than
// score, or false at the top tier.
func (c Catalog) Next(score int) (Level, bool) {
	for _, l := range c.levels {
		if l.MinScore > score {
			return l, true
		}
	}
	return Level{}, false
}

// PointsToNext is the score distance to the next tier, 0 at the top.
func (c Catalog) PointsToNext(score int) int {
	next, ok := c.Next(score)
	if !ok {
		return 0
	}
	return next.MinScore - score
}
