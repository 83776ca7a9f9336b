package bucket_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vapeless/vapeless/internal/domain/bucket"
	"github.com/vapeless/vapeless/internal/domain/model"
)

func ev(ts int64, count int) model.Event {
	return model.Event{Timestamp: ts, Count: count}
}

func TestCountInRange(t *testing.T) {
	Convey("Given a small unsorted snapshot", t, func() {
		events := []model.Event{ev(300, 2), ev(100, 1), ev(200, 3), ev(400, 1)}

		Convey("When counting a half-open range", func() {
			Convey("Then the start is inclusive and the end exclusive", func() {
				So(bucket.CountInRange(events, 100, 400), ShouldEqual, 6)
				So(bucket.CountInRange(events, 100, 401), ShouldEqual, 7)
				So(bucket.CountInRange(events, 101, 400), ShouldEqual, 5)
			})
		})

		Convey("When the range covers nothing", func() {
			So(bucket.CountInRange(events, 500, 600), ShouldEqual, 0)
			So(bucket.CountInRange(events, 200, 200), ShouldEqual, 0)
		})

		Convey("When an event has a negative count", func() {
			withBad := append([]model.Event{ev(150, -5)}, events...)

			Convey("Then it contributes zero, never a reduction", func() {
				So(bucket.CountInRange(withBad, 100, 400), ShouldEqual, 6)
			})
		})
	})
}

func TestCounter(t *testing.T) {
	Convey("Given a Counter over an unsorted snapshot", t, func() {
		events := []model.Event{ev(300, 2), ev(100, 1), ev(200, 3), ev(400, 1), ev(200, 2)}
		c := bucket.NewCounter(events)

		Convey("When querying ranges", func() {
			Convey("Then it agrees with the linear scan", func() {
				ranges := [][2]int64{{0, 1000}, {100, 400}, {200, 201}, {150, 350}, {400, 400}}
				for _, r := range ranges {
					So(c.CountInRange(r[0], r[1]), ShouldEqual, bucket.CountInRange(events, r[0], r[1]))
				}
			})
		})

		Convey("When the range is inverted", func() {
			So(c.CountInRange(400, 100), ShouldEqual, 0)
		})

		Convey("When asking for totals", func() {
			So(c.Total(), ShouldEqual, 9)
			So(c.Len(), ShouldEqual, 5)
		})

		Convey("When inspecting the input slice afterwards", func() {
			Convey("Then its order is untouched", func() {
				So(events[0].Timestamp, ShouldEqual, 300)
				So(events[1].Timestamp, ShouldEqual, 100)
			})
		})
	})

	Convey("Given a Counter over an empty snapshot", t, func() {
		c := bucket.NewCounter(nil)

		So(c.CountInRange(0, 1000), ShouldEqual, 0)
		So(c.Total(), ShouldEqual, 0)
		So(c.Len(), ShouldEqual, 0)
	})
}
