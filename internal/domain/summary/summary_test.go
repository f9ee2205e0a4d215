package summary_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/voyago/reputation/internal/domain/model"
	"github.com/voyago/reputation/internal/domain/summary"
)

func completedTrip(wallet, country string, amount int64, days int, ts time.Time) model.Event {
	ev := model.NewEvent(wallet, model.BookingCompleted, ts)
	ev.Trip = &model.TripDetails{
		CountryCode: country,
		StartDate:   ts.AddDate(0, 0, -days),
		EndDate:     ts,
		AmountUSD:   decimal.NewFromInt(amount),
	}
	return ev
}

func TestSummarize_EmptyHistory(t *testing.T) {
	Convey("Given a wallet with no events", t, func() {
		s := summary.Summarize("wallet-1", nil)

		Convey("Then every counter should be zero", func() {
			So(s.WalletID, ShouldEqual, "wallet-1")
			So(s.TotalBookings, ShouldEqual, 0)
			So(s.CompletedBookings, ShouldEqual, 0)
			So(s.TotalSpentUSD.IsZero(), ShouldBeTrue)
			So(s.CountriesCount(), ShouldEqual, 0)
		})

		Convey("Then the rates should be zero, not NaN", func() {
			So(s.CompletionRate(), ShouldEqual, 0)
			So(s.DisputeRate(), ShouldEqual, 0)
		})

		Convey("Then the average rating should be unavailable", func() {
			So(s.AverageRating, ShouldBeNil)
		})
	})
}

func TestSummarize_Counters(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given a full booking history", t, func() {
		events := []model.Event{
			model.NewEvent("wallet-1", model.BookingCreated, base),
			model.NewEvent("wallet-1", model.BookingPaid, base.Add(time.Hour)),
			completedTrip("wallet-1", "PT", 1200, 7, base.Add(48*time.Hour)),
			model.NewEvent("wallet-1", model.BookingCreated, base.Add(72*time.Hour)),
			model.NewEvent("wallet-1", model.BookingCancelled, base.Add(96*time.Hour)),
			model.NewEvent("wallet-1", model.DisputeOpened, base.Add(120*time.Hour)),
		}
		s := summary.Summarize("wallet-1", events)

		Convey("Then the counters should match the history", func() {
			So(s.TotalBookings, ShouldEqual, 2)
			So(s.CompletedBookings, ShouldEqual, 1)
			So(s.CancelledBookings, ShouldEqual, 1)
			So(s.DisputedBookings, ShouldEqual, 1)
		})

		Convey("Then spend and travel facts should come from completed trips", func() {
			So(s.TotalSpentUSD.Equal(decimal.NewFromInt(1200)), ShouldBeTrue)
			So(s.TotalTravelDays, ShouldEqual, 7)
			So(s.CountriesVisited, ShouldResemble, []string{"PT"})
		})

		Convey("Then first and last booking times should track created events", func() {
			So(s.FirstBookingAt, ShouldNotBeNil)
			So(s.FirstBookingAt.Equal(base), ShouldBeTrue)
			So(s.LastBookingAt, ShouldNotBeNil)
		})
	})
}

func TestRates_Clamped(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given more completions than created bookings", t, func() {
		events := []model.Event{
			model.NewEvent("wallet-1", model.BookingCreated, base),
			completedTrip("wallet-1", "PT", 500, 3, base.Add(time.Hour)),
			completedTrip("wallet-1", "PT", 500, 3, base.Add(2*time.Hour)),
		}
		s := summary.Summarize("wallet-1", events)

		Convey("Then the completion rate should clamp to 1", func() {
			So(s.CompletedBookings, ShouldEqual, 2)
			So(s.TotalBookings, ShouldEqual, 1)
			So(s.CompletionRate(), ShouldEqual, 1.0)
		})
	})

	Convey("Given more disputes than created bookings", t, func() {
		events := []model.Event{
			model.NewEvent("wallet-1", model.BookingCreated, base),
			model.NewEvent("wallet-1", model.DisputeOpened, base.Add(time.Hour)),
			model.NewEvent("wallet-1", model.DisputeOpened, base.Add(2*time.Hour)),
		}
		s := summary.Summarize("wallet-1", events)

		Convey("Then the dispute rate should clamp to 1", func() {
			So(s.DisputedBookings, ShouldEqual, 2)
			So(s.DisputeRate(), ShouldEqual, 1.0)
		})
	})
}

func TestSummarize_Idempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given the same event sequence folded twice", t, func() {
		events := []model.Event{
			model.NewEvent("wallet-1", model.BookingCreated, base),
			completedTrip("wallet-1", "JP", 3000, 10, base.Add(time.Hour)),
			completedTrip("wallet-1", "JP", 2000, 5, base.Add(2*time.Hour)),
		}

		first := summary.Summarize("wallet-1", events)
		second := summary.Summarize("wallet-1", events)

		Convey("Then both folds should agree", func() {
			So(second, ShouldResemble, first)
		})

		Convey("Then repeated countries should count once", func() {
			So(first.CountriesCount(), ShouldEqual, 1)
		})
	})
}

func TestSummarize_OrderInsensitiveCounts(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given the same multiset of events in two orders", t, func() {
		rating := 4
		rated := completedTrip("wallet-1", "JP", 3000, 10, base.Add(2*time.Hour))
		rated.Rating = &rating
		referral := model.NewEvent("wallet-1", model.ReferralBonus, base.Add(5*time.Hour))
		referral.Referral = &model.ReferralDetails{
			Kind:       model.BonusKindCommission,
			Successful: true,
			AmountUSD:  decimal.NewFromInt(10),
		}
		events := []model.Event{
			model.NewEvent("wallet-1", model.BookingCreated, base),
			model.NewEvent("wallet-1", model.BookingCreated, base.Add(time.Hour)),
			rated,
			completedTrip("wallet-1", "PT", 2000, 5, base.Add(3*time.Hour)),
			model.NewEvent("wallet-1", model.BookingCancelled, base.Add(4*time.Hour)),
			referral,
		}
		permuted := make([]model.Event, len(events))
		for i, e := range events {
			permuted[len(events)-1-i] = e
		}

		forward := summary.Summarize("wallet-1", events)
		backward := summary.Summarize("wallet-1", permuted)

		Convey("Then the final counts should not depend on fold order", func() {
			So(backward.TotalBookings, ShouldEqual, forward.TotalBookings)
			So(backward.CompletedBookings, ShouldEqual, forward.CompletedBookings)
			So(backward.CancelledBookings, ShouldEqual, forward.CancelledBookings)
			So(backward.DisputedBookings, ShouldEqual, forward.DisputedBookings)
			So(backward.TotalReferrals, ShouldEqual, forward.TotalReferrals)
			So(backward.SuccessfulReferrals, ShouldEqual, forward.SuccessfulReferrals)
		})

		Convey("Then spend, travel and rating facts should agree", func() {
			So(backward.TotalSpentUSD.Equal(forward.TotalSpentUSD), ShouldBeTrue)
			So(backward.TotalTravelDays, ShouldEqual, forward.TotalTravelDays)
			So(backward.CountriesCount(), ShouldEqual, forward.CountriesCount())
			So(backward.CommissionEarnedUSD.Equal(forward.CommissionEarnedUSD), ShouldBeTrue)
			So(backward.AverageRating, ShouldNotBeNil)
			So(*backward.AverageRating, ShouldEqual, *forward.AverageRating)
		})
	})
}

func TestSummarize_Ratings(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given rated completions", t, func() {
		ratings := []int{5, 4, 4}
		var events []model.Event
		for i, r := range ratings {
			rating := r
			ev := completedTrip("wallet-1", "FR", 500, 3, base.Add(time.Duration(i)*time.Hour))
			ev.Rating = &rating
			events = append(events, ev)
		}
		s := summary.Summarize("wallet-1", events)

		Convey("Then the average should cover only rated events", func() {
			So(s.AverageRating, ShouldNotBeNil)
			So(*s.AverageRating, ShouldAlmostEqual, 13.0/3.0, 1e-9)
		})
	})

	Convey("Given completions without ratings", t, func() {
		events := []model.Event{
			completedTrip("wallet-1", "FR", 500, 3, base),
			completedTrip("wallet-1", "FR", 500, 3, base.Add(time.Hour)),
		}
		s := summary.Summarize("wallet-1", events)

		Convey("Then the average should stay unavailable rather than zero", func() {
			So(s.AverageRating, ShouldBeNil)
		})
	})
}

func TestSummarize_Referrals(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	Convey("Given a mix of referral outcomes", t, func() {
		mk := func(kind model.BonusKind, successful bool, amount int64) model.Event {
			ev := model.NewEvent("wallet-1", model.ReferralBonus, base)
			ev.Referral = &model.ReferralDetails{
				Kind:       kind,
				Successful: successful,
				AmountUSD:  decimal.NewFromInt(amount),
			}
			return ev
		}
		events := []model.Event{
			mk(model.BonusKindCommission, true, 10),
			mk(model.BonusKindCommission, true, 10),
			mk(model.BonusKindBonus, true, 25),
			mk(model.BonusKindCommission, false, 10),
		}
		s := summary.Summarize("wallet-1", events)

		Convey("Then totals should count every referral event", func() {
			So(s.TotalReferrals, ShouldEqual, 4)
			So(s.SuccessfulReferrals, ShouldEqual, 3)
		})

		Convey("Then earnings should split by bonus kind", func() {
			So(s.CommissionEarnedUSD.Equal(decimal.NewFromInt(20)), ShouldBeTrue)
			So(s.BonusEarnedUSD.Equal(decimal.NewFromInt(25)), ShouldBeTrue)
		})

		Convey("Then unsuccessful referrals should not earn", func() {
			total := s.CommissionEarnedUSD.Add(s.BonusEarnedUSD)
			So(total.Equal(decimal.NewFromInt(45)), ShouldBeTrue)
		})
	})
}
