package pattern_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vapeless/vapeless/internal/domain/calendar"
	"github.com/vapeless/vapeless/internal/domain/model"
	"github.com/vapeless/vapeless/internal/domain/pattern"
)

func atHour(day, hour int) model.Event {
	ts := time.Date(2024, 7, day, hour, 15, 0, 0, time.UTC).UnixMilli()
	return model.Event{Timestamp: ts, Count: 1}
}

func TestFindPeakHour(t *testing.T) {
	clock := calendar.New(calendar.WithLocation(time.UTC))

	Convey("Given events clustered around two hours", t, func() {
		events := []model.Event{
			atHour(1, 9), atHour(2, 9),
			atHour(1, 14), atHour(2, 14), atHour(3, 14),
		}

		Convey("When finding the peak hour", func() {
			peak := pattern.FindPeakHour(clock, events)

			Convey("Then the fuller slot wins across days", func() {
				So(peak, ShouldNotBeNil)
				So(peak.HourOfDay, ShouldEqual, 14)
				So(peak.Count, ShouldEqual, 3)
			})
		})
	})

	Convey("Given two hours with equal totals", t, func() {
		events := []model.Event{atHour(1, 21), atHour(1, 8), atHour(2, 21), atHour(2, 8)}
		peak := pattern.FindPeakHour(clock, events)

		Convey("Then the tie breaks toward the lower hour", func() {
			So(peak.HourOfDay, ShouldEqual, 8)
			So(peak.Count, ShouldEqual, 2)
		})
	})

	Convey("Given multi-unit events", t, func() {
		heavy := atHour(1, 7)
		heavy.Count = 5
		events := []model.Event{heavy, atHour(1, 22), atHour(2, 22)}
		peak := pattern.FindPeakHour(clock, events)

		Convey("Then units, not event cardinality, decide the peak", func() {
			So(peak.HourOfDay, ShouldEqual, 7)
			So(peak.Count, ShouldEqual, 5)
		})
	})

	Convey("Given an empty snapshot", t, func() {
		So(pattern.FindPeakHour(clock, nil), ShouldBeNil)
	})

	Convey("Given events that sum to zero units", t, func() {
		zero := atHour(1, 10)
		zero.Count = 0
		So(pattern.FindPeakHour(clock, []model.Event{zero}), ShouldBeNil)
	})

	Convey("Given a non-UTC clock", t, func() {
		loc := time.FixedZone("UTC+3", 3*3600)
		local := calendar.New(calendar.WithLocation(loc))
		// 22:00 UTC is 01:00 local.
		e := model.Event{Timestamp: time.Date(2024, 7, 1, 22, 0, 0, 0, time.UTC).UnixMilli(), Count: 1}
		peak := pattern.FindPeakHour(local, []model.Event{e})

		Convey("Then bucketing follows the local hour", func() {
			So(peak.HourOfDay, ShouldEqual, 1)
		})
	})
}
