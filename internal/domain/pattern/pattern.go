// Package pattern aggregates event snapshots into behavioral signals.
package pattern

import (
	"github.com/vapeless/vapeless/internal/domain/calendar"
	"github.com/vapeless/vapeless/internal/domain/model"
)

// Hours in a day; the analyzer buckets by local hour of day.
const hoursPerDay = 24

// PeakHour identifies the modal hour of use across the whole history.
type PeakHour struct {
	HourOfDay int // 0..23
	Count     int // units logged in that hour slot
}

// FindPeakHour buckets every event (not only today's) into 24 hour-of-day
// slots by local hour and returns the fullest slot. Ties break toward
// the lowest hour index so results stay deterministic. Returns nil when
// the snapshot is empty or sums to zero units.
func FindPeakHour(clock calendar.Clock, events []model.Event) *PeakHour {
	if len(events) == 0 {
		return nil
	}
	var buckets [hoursPerDay]int
	for i := range events {
		buckets[clock.HourOf(events[i].Timestamp)] += events[i].Units()
	}
	best := 0
	for h := 1; h < hoursPerDay; h++ {
		if buckets[h] > buckets[best] {
			best = h
		}
	}
	if buckets[best] == 0 {
		return nil
	}
	return &PeakHour{HourOfDay: best, Count: buckets[best]}
}
