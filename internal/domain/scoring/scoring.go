// Package scoring maps a reputation summary to a trust score.
package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/voyago/reputation/internal/domain/summary"
)

// Score bounds. Every computed score is clamped to this range.
const (
	MinScore = 0
	MaxScore = 1000
)

// Default weight constants. Each positive factor has a cap so that no single
// input can grow a score without bound, and each contribution is monotonic
// in its input.
const (
	defaultPointsPerCompleted = 10
	defaultVolumeCap          = 300
	defaultCompletionWeight   = 200
	defaultDisputeWeight      = 250
	defaultUSDPerPoint        = 100
	defaultSpendCap           = 150
	defaultPointsPerReferral  = 5
	defaultReferralCap        = 100
)

// Rating bonus bands, highest first.
var defaultRatingBands = []RatingBand{
	{MinAverage: 4.5, Bonus: 100},
	{MinAverage: 4.0, Bonus: 50},
	{MinAverage: 3.5, Bonus: 20},
}

// RatingBand awards Bonus points when the average rating is at least MinAverage.
type RatingBand struct {
	MinAverage float64
	Bonus      int
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithVolumeWeights sets the per-completed-booking points and their cap.
func WithVolumeWeights(perCompleted, cap int) Option {
	return func(s *Scorer) {
		if perCompleted > 0 && cap > 0 {
			s.pointsPerCompleted = perCompleted
			s.volumeCap = cap
		}
	}
}

// WithRateWeights sets the completion-rate bonus and dispute-rate penalty weights.
func WithRateWeights(completion, dispute int) Option {
	return func(s *Scorer) {
		if completion > 0 {
			s.completionWeight = completion
		}
		if dispute > 0 {
			s.disputeWeight = dispute
		}
	}
}

// WithSpendWeights sets the dollars-per-point divisor and the spend cap.
func WithSpendWeights(usdPerPoint, cap int) Option {
	return func(s *Scorer) {
		if usdPerPoint > 0 && cap > 0 {
			s.usdPerPoint = usdPerPoint
			s.spendCap = cap
		}
	}
}

// WithReferralWeights sets the per-successful-referral points and their cap.
func WithReferralWeights(perReferral, cap int) Option {
	return func(s *Scorer) {
		if perReferral > 0 && cap > 0 {
			s.pointsPerReferral = perReferral
			s.referralCap = cap
		}
	}
}

// Scorer computes a deterministic score in [MinScore, MaxScore] from a summary.
type Scorer struct {
	pointsPerCompleted int
	volumeCap          int
	completionWeight   int
	disputeWeight      int
	usdPerPoint        int
	spendCap           int
	pointsPerReferral  int
	referralCap        int
	ratingBands        []RatingBand
}

// New creates a Scorer with default weights, adjusted by options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		pointsPerCompleted: defaultPointsPerCompleted,
		volumeCap:          defaultVolumeCap,
		completionWeight:   defaultCompletionWeight,
		disputeWeight:      defaultDisputeWeight,
		usdPerPoint:        defaultUSDPerPoint,
		spendCap:           defaultSpendCap,
		pointsPerReferral:  defaultPointsPerReferral,
		referralCap:        defaultReferralCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ratingBands == nil {
		s.ratingBands = defaultRatingBands
	}
	return s
}

// Score computes the reputation score for a summary.
//
// The function is monotonic in each input holding the others fixed: more
// completed bookings, spend, referrals or a higher rating never lower the
// score; more disputes never raise it.
func (s *Scorer) Score(sum summary.Summary) int {
	score := 0

	// Booking volume, diminishing to a hard cap.
	volume := sum.CompletedBookings * s.pointsPerCompleted
	if volume > s.volumeCap {
		volume = s.volumeCap
	}
	score += volume

	// Completion rate, strong positive weight.
	score += int(sum.CompletionRate() * float64(s.completionWeight))

	// Dispute rate, strong negative weight.
	score -= int(sum.DisputeRate() * float64(s.disputeWeight))

	// Spend, one point per usdPerPoint dollars, capped.
	spend := int(sum.TotalSpentUSD.Div(decimal.NewFromInt(int64(s.usdPerPoint))).IntPart())
	if spend > s.spendCap {
		spend = s.spendCap
	}
	if spend > 0 {
		score += spend
	}

	// Referral success, capped.
	referrals := sum.SuccessfulReferrals * s.pointsPerReferral
	if referrals > s.referralCap {
		referrals = s.referralCap
	}
	score += referrals

	// Rating bonus: highest band whose threshold the average meets.
	if sum.AverageRating != nil {
		for _, band := range s.ratingBands {
			if *sum.AverageRating >= band.MinAverage {
				score += band.Bonus
				break
			}
		}
	}

	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// Factors describes the scoring inputs for API consumers.
func Factors() map[string]string {
	return map[string]string{
		"booking_completion": "Points for completing bookings successfully",
		"completion_rate":    "Bonus scaled by the share of bookings completed",
		"spending_amount":    "Points based on total amount spent on travel",
		"referral_bonus":     "Points for successful referrals",
		"average_rating":     "Bonus for consistently high trip ratings",
		"dispute_penalty":    "Points deducted for disputes",
	}
}
