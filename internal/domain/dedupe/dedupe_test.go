package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vapeless/vapeless/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a deduper with default options", t, func() {
		d := dedupe.NewInMemory()

		Convey("When recording a new ID", func() {
			seen := d.SeenAndRecord(ctx, "event-1")

			Convey("Then it reports unseen and remembers it", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording the same ID twice", func() {
			d.SeenAndRecord(ctx, "event-1")
			seen := d.SeenAndRecord(ctx, "event-1")

			Convey("Then the second call reports seen", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording an ID", func() {
			d.SeenAndRecord(ctx, "event-1")
			d.Unrecord(ctx, "event-1")

			Convey("Then it can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "event-1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			d.Unrecord(ctx, "never-seen")

			So(d.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a deduper bounded to three IDs", t, func() {
		d := dedupe.NewInMemory(dedupe.WithMaxSize(3))

		Convey("When a fourth ID arrives", func() {
			for i := 1; i <= 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("event-%d", i))
			}

			Convey("Then the oldest ID was evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "event-1"), ShouldBeFalse)
			})

			Convey("Then recent IDs are still remembered", func() {
				So(d.SeenAndRecord(ctx, "event-4"), ShouldBeTrue)
			})
		})
	})

	Convey("Given concurrent writers", t, func() {
		d := dedupe.NewInMemory()
		const goroutines = 8
		const perGoroutine = 200

		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < perGoroutine; i++ {
					d.SeenAndRecord(ctx, fmt.Sprintf("g%d-e%d", g, i))
				}
			}(g)
		}
		wg.Wait()

		Convey("Then every distinct ID is counted once", func() {
			So(d.Size(), ShouldEqual, goroutines*perGoroutine)
		})
	})
}
