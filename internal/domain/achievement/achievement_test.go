package achievement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/voyago/reputation/internal/domain/achievement"
	"github.com/voyago/reputation/internal/domain/summary"
)

func statusByID(statuses []achievement.Status, id string) (achievement.Status, bool) {
	for _, st := range statuses {
		if st.ID == id {
			return st, true
		}
	}
	return achievement.Status{}, false
}

func TestEvaluate_EmptySummary(t *testing.T) {
	Convey("Given a wallet with no history", t, func() {
		ev := achievement.Evaluate(summary.New("wallet-1"))

		Convey("Then every achievement should be locked", func() {
			So(len(ev.Unlocked), ShouldEqual, 0)
			So(len(ev.Locked), ShouldEqual, achievement.Count())
		})

		Convey("Then locked entries should report zero progress", func() {
			for _, st := range ev.Locked {
				So(st.Progress, ShouldEqual, 0)
				So(st.Ratio, ShouldEqual, 0)
			}
		})
	})
}

func TestEvaluate_Partition(t *testing.T) {
	Convey("Given an active traveler summary", t, func() {
		s := summary.New("wallet-1")
		s.TotalBookings = 5
		s.CompletedBookings = 5
		s.TotalSpentUSD = decimal.NewFromInt(12_000)
		s.CountriesVisited = []string{"PT", "JP", "FR"}
		avg := 4.8
		s.AverageRating = &avg

		ev := achievement.Evaluate(s)

		Convey("Then the earned milestones should be unlocked", func() {
			for _, id := range []string{"first_booking", "trusted_traveler", "explorer", "high_roller"} {
				_, ok := statusByID(ev.Unlocked, id)
				So(ok, ShouldBeTrue)
			}
		})

		Convey("Then the long-haul milestones should stay locked", func() {
			for _, id := range []string{"perfect_record", "referral_master", "seasoned_traveler", "dispute_free"} {
				_, ok := statusByID(ev.Locked, id)
				So(ok, ShouldBeTrue)
			}
		})

		Convey("Then the partition should cover the whole catalog exactly once", func() {
			So(len(ev.Unlocked)+len(ev.Locked), ShouldEqual, achievement.Count())
		})
	})
}

func TestEvaluate_ProgressClamped(t *testing.T) {
	Convey("Given stats far past their thresholds", t, func() {
		s := summary.New("wallet-1")
		s.TotalBookings = 120
		s.CompletedBookings = 120
		s.TotalSpentUSD = decimal.NewFromInt(50_000)
		s.SuccessfulReferrals = 40

		ev := achievement.Evaluate(s)

		Convey("Then progress should clamp at max and the ratio at 1", func() {
			st, ok := statusByID(ev.Unlocked, "high_roller")
			So(ok, ShouldBeTrue)
			So(st.Progress, ShouldEqual, st.MaxProgress)
			So(st.Ratio, ShouldEqual, 1.0)

			st, ok = statusByID(ev.Unlocked, "seasoned_traveler")
			So(ok, ShouldBeTrue)
			So(st.Progress, ShouldEqual, 25)
			So(st.Ratio, ShouldEqual, 1.0)
		})
	})
}

func TestEvaluate_Conditions(t *testing.T) {
	Convey("Given edge-case summaries", t, func() {
		Convey("When the rating is high but volume is low", func() {
			s := summary.New("wallet-1")
			s.TotalBookings = 4
			s.CompletedBookings = 4
			avg := 5.0
			s.AverageRating = &avg

			ev := achievement.Evaluate(s)
			_, locked := statusByID(ev.Locked, "trusted_traveler")
			So(locked, ShouldBeTrue)
		})

		Convey("When volume is high but the rating is unavailable", func() {
			s := summary.New("wallet-1")
			s.TotalBookings = 10
			s.CompletedBookings = 10

			ev := achievement.Evaluate(s)
			_, locked := statusByID(ev.Locked, "trusted_traveler")
			So(locked, ShouldBeTrue)
		})

		Convey("When 10 bookings all completed", func() {
			s := summary.New("wallet-1")
			s.TotalBookings = 10
			s.CompletedBookings = 10

			ev := achievement.Evaluate(s)
			_, unlocked := statusByID(ev.Unlocked, "perfect_record")
			So(unlocked, ShouldBeTrue)
		})

		Convey("When one of 10 bookings was cancelled", func() {
			s := summary.New("wallet-1")
			s.TotalBookings = 10
			s.CompletedBookings = 9
			s.CancelledBookings = 1

			ev := achievement.Evaluate(s)
			_, locked := statusByID(ev.Locked, "perfect_record")
			So(locked, ShouldBeTrue)
		})

		Convey("When 50 bookings carry a single dispute", func() {
			s := summary.New("wallet-1")
			s.TotalBookings = 50
			s.CompletedBookings = 49
			s.DisputedBookings = 1

			ev := achievement.Evaluate(s)
			_, locked := statusByID(ev.Locked, "dispute_free")
			So(locked, ShouldBeTrue)
		})

		Convey("When spend sits exactly on the High Roller threshold", func() {
			s := summary.New("wallet-1")
			s.TotalSpentUSD = decimal.NewFromInt(10_000)

			ev := achievement.Evaluate(s)
			_, unlocked := statusByID(ev.Unlocked, "high_roller")
			So(unlocked, ShouldBeTrue)
		})
	})
}
