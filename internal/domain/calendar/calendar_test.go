package calendar_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vapeless/vapeless/internal/domain/calendar"
	"github.com/vapeless/vapeless/internal/domain/model"
)

func TestClock_DayStart(t *testing.T) {
	Convey("Given a clock pinned to UTC", t, func() {
		clock := calendar.New(calendar.WithLocation(time.UTC))

		Convey("When normalizing a mid-day timestamp", func() {
			ts := time.Date(2024, 3, 15, 14, 30, 12, 0, time.UTC).UnixMilli()
			start := clock.DayStart(ts)

			Convey("Then it should return that day's midnight", func() {
				So(start, ShouldEqual, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).UnixMilli())
			})
		})

		Convey("When the timestamp is already midnight", func() {
			ts := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).UnixMilli()

			Convey("Then DayStart is a fixed point", func() {
				So(clock.DayStart(ts), ShouldEqual, ts)
			})
		})

		Convey("When the timestamp is malformed", func() {
			Convey("Then negative input clamps instead of erroring", func() {
				So(clock.DayStart(-5), ShouldEqual, clock.DayStart(0))
			})
		})
	})

	Convey("Given a clock in a non-UTC zone", t, func() {
		loc := time.FixedZone("UTC+5", 5*3600)
		clock := calendar.New(calendar.WithLocation(loc))

		Convey("When a timestamp is before local midnight but after UTC midnight", func() {
			// 22:00 UTC on the 14th is 03:00 on the 15th in UTC+5.
			ts := time.Date(2024, 3, 14, 22, 0, 0, 0, time.UTC).UnixMilli()
			start := clock.DayStart(ts)

			Convey("Then the boundary follows the local calendar", func() {
				So(start, ShouldEqual, time.Date(2024, 3, 15, 0, 0, 0, 0, loc).UnixMilli())
			})
		})
	})
}

func TestClock_DayIndex(t *testing.T) {
	Convey("Given a clock", t, func() {
		clock := calendar.New(calendar.WithLocation(time.UTC))
		planStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

		Convey("When the timestamp is on the plan start day", func() {
			So(clock.DayIndex(planStart, planStart), ShouldEqual, 0)
			So(clock.DayIndex(planStart+model.MillisPerDay-1, planStart), ShouldEqual, 0)
		})

		Convey("When the timestamp is N full days later", func() {
			So(clock.DayIndex(planStart+model.MillisPerDay, planStart), ShouldEqual, 1)
			So(clock.DayIndex(planStart+14*model.MillisPerDay, planStart), ShouldEqual, 14)
		})

		Convey("When the plan start is in the future", func() {
			Convey("Then the index clamps to 0", func() {
				So(clock.DayIndex(planStart, planStart+model.MillisPerDay), ShouldEqual, 0)
			})
		})
	})
}

func TestClock_HourOf(t *testing.T) {
	Convey("Given a clock pinned to UTC", t, func() {
		clock := calendar.New(calendar.WithLocation(time.UTC))

		Convey("When extracting hours across the day", func() {
			So(clock.HourOf(time.Date(2024, 6, 1, 0, 5, 0, 0, time.UTC).UnixMilli()), ShouldEqual, 0)
			So(clock.HourOf(time.Date(2024, 6, 1, 14, 59, 0, 0, time.UTC).UnixMilli()), ShouldEqual, 14)
			So(clock.HourOf(time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC).UnixMilli()), ShouldEqual, 23)
		})
	})
}
