package costs_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vapeless/vapeless/internal/domain/costs"
	"github.com/vapeless/vapeless/internal/domain/model"
)

func TestSummarize(t *testing.T) {
	Convey("Given a plan at 6.00 per 600-unit package", t, func() {
		plan := model.PlanConfig{
			DailyBudgetStart: 400,
			UnitCost:         6.0,
			UnitsPerPackage:  600,
			Currency:         "EUR",
		}

		Convey("When summarizing spend without a quit date", func() {
			events := []model.Event{
				{Timestamp: 1000, Count: 100},
				{Timestamp: 2000, Count: 200},
			}
			s := costs.Summarize(events, plan, 10_000)

			Convey("Then spend is units times per-unit cost and savings stay zero", func() {
				So(s.TotalUnits, ShouldEqual, 300)
				So(s.TotalSpent, ShouldAlmostEqual, 3.0, 1e-9)
				So(s.Saved, ShouldEqual, 0)
				So(s.Currency, ShouldEqual, "EUR")
			})
		})

		Convey("When two clean days have passed since the quit date", func() {
			quit := int64(1_000_000)
			plan.QuitDateMs = &quit
			nowMs := quit + 2*model.MillisPerDay
			s := costs.Summarize(nil, plan, nowMs)

			Convey("Then savings equal the avoided baseline", func() {
				// 2 days * 400 units * 0.01 per unit.
				So(s.Saved, ShouldAlmostEqual, 8.0, 1e-9)
			})
		})

		Convey("When use continues after the quit date", func() {
			quit := int64(1_000_000)
			plan.QuitDateMs = &quit
			nowMs := quit + model.MillisPerDay
			events := []model.Event{{Timestamp: quit + 1000, Count: 100}}
			s := costs.Summarize(events, plan, nowMs)

			Convey("Then post-quit units reduce the savings", func() {
				// 1 day * 400 * 0.01 minus 100 * 0.01.
				So(s.Saved, ShouldAlmostEqual, 3.0, 1e-9)
			})
		})

		Convey("When post-quit use exceeds the baseline", func() {
			quit := int64(1_000_000)
			plan.QuitDateMs = &quit
			nowMs := quit + model.MillisPerDay
			events := []model.Event{{Timestamp: quit + 1000, Count: 1000}}
			s := costs.Summarize(events, plan, nowMs)

			Convey("Then savings clamp to zero", func() {
				So(s.Saved, ShouldEqual, 0)
			})
		})

		Convey("When the quit date is in the future", func() {
			quit := int64(5_000_000)
			plan.QuitDateMs = &quit
			s := costs.Summarize(nil, plan, 1_000_000)

			So(s.Saved, ShouldEqual, 0)
		})
	})

	Convey("Given a plan without package economics", t, func() {
		plan := model.PlanConfig{DailyBudgetStart: 400}
		events := []model.Event{{Timestamp: 1000, Count: 50}}
		s := costs.Summarize(events, plan, 10_000)

		Convey("Then unit totals survive but money stays zero", func() {
			So(s.TotalUnits, ShouldEqual, 50)
			So(s.TotalSpent, ShouldEqual, 0)
			So(s.Saved, ShouldEqual, 0)
		})
	})
}
