package stats_test

import (
	"testing"

	model "github.com/okian/binsight/internal/domain/model"
	stats "github.com/okian/binsight/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompute(t *testing.T) {
	Convey("Given empty users and records", t, func() {
		summary := stats.Compute(nil, nil)

		Convey("Then every counter should be zero", func() {
			So(summary.TotalUsers, ShouldEqual, 0)
			So(summary.CorrectSegregations, ShouldEqual, 0)
			So(summary.RewardsGiven, ShouldEqual, 0)
			So(summary.FinesCollected, ShouldEqual, 0)
		})
	})

	Convey("Given a mix of rewards and fines", t, func() {
		users := []model.User{
			{ID: "USR1", Name: "Ann"},
			{ID: "USR2", Name: "Bob"},
		}
		records := []model.Record{
			{ID: "RES1", UserID: "USR1", IsCorrect: true, Points: 10},
			{ID: "RES2", UserID: "USR2", IsCorrect: false, Points: -5},
			{ID: "RES3", UserID: "USR1", IsCorrect: true, Points: 10},
			{ID: "RES4", UserID: "USR1", IsCorrect: false, Points: -5},
		}

		summary := stats.Compute(users, records)

		Convey("Then it should count users, verdicts and points", func() {
			So(summary.TotalUsers, ShouldEqual, 2)
			So(summary.CorrectSegregations, ShouldEqual, 2)
			So(summary.RewardsGiven, ShouldEqual, 20)
			So(summary.FinesCollected, ShouldEqual, 10)
		})

		Convey("Then rewards and fines should never go negative", func() {
			So(summary.RewardsGiven, ShouldBeGreaterThanOrEqualTo, 0)
			So(summary.FinesCollected, ShouldBeGreaterThanOrEqualTo, 0)
		})

		Convey("When computing twice on the same input", func() {
			again := stats.Compute(users, records)

			Convey("Then the results should be identical", func() {
				So(again, ShouldResemble, summary)
			})
		})
	})

	Convey("Given only fines", t, func() {
		records := []model.Record{
			{ID: "RES1", IsCorrect: false, Points: -5},
			{ID: "RES2", IsCorrect: false, Points: -5},
		}

		summary := stats.Compute(nil, records)

		Convey("Then fines should accumulate as a positive total", func() {
			So(summary.FinesCollected, ShouldEqual, 10)
			So(summary.RewardsGiven, ShouldEqual, 0)
			So(summary.CorrectSegregations, ShouldEqual, 0)
		})
	})

	Convey("Given records whose user is missing from the user list", t, func() {
		records := []model.Record{
			{ID: "RES1", UserID: "USR-gone", IsCorrect: true, Points: 10},
		}

		summary := stats.Compute(nil, records)

		Convey("Then the record still counts toward the totals", func() {
			So(summary.TotalUsers, ShouldEqual, 0)
			So(summary.CorrectSegregations, ShouldEqual, 1)
			So(summary.RewardsGiven, ShouldEqual, 10)
		})
	})
}
