// Package bucket partitions event snapshots into time-range counts.
package bucket

import (
	"sort"

	"github.com/vapeless/vapeless/internal/domain/model"
)

// CountInRange sums the unit counts of events whose timestamp lies in
// [startMs, endMs). Pure and O(n); callers that need many day buckets
// over the same snapshot should build a Counter instead.
func CountInRange(events []model.Event, startMs, endMs int64) int {
	total := 0
	for i := range events {
		if events[i].Timestamp >= startMs && events[i].Timestamp < endMs {
			total += events[i].Units()
		}
	}
	return total
}

// Counter answers repeated range queries over one immutable snapshot.
// It sorts a copy of the events once and answers each query with two
// binary searches over a prefix-sum table, so a full ledger build over a
// long history is O(n log n + days log n) instead of O(n * days).
type Counter struct {
	times  []int64
	prefix []int // prefix[i] = units of times[0..i-1]
}

// NewCounter builds a Counter from an event snapshot. The snapshot may
// be in any order; the input slice is not modified.
func NewCounter(events []model.Event) *Counter {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	c := &Counter{
		times:  make([]int64, len(sorted)),
		prefix: make([]int, len(sorted)+1),
	}
	for i := range sorted {
		c.times[i] = sorted[i].Timestamp
		c.prefix[i+1] = c.prefix[i] + sorted[i].Units()
	}
	return c
}

// CountInRange sums units in [startMs, endMs).
func (c *Counter) CountInRange(startMs, endMs int64) int {
	if endMs <= startMs {
		return 0
	}
	lo := sort.Search(len(c.times), func(i int) bool { return c.times[i] >= startMs })
	hi := sort.Search(len(c.times), func(i int) bool { return c.times[i] >= endMs })
	return c.prefix[hi] - c.prefix[lo]
}

// Total sums units over the whole snapshot.
func (c *Counter) Total() int {
	return c.prefix[len(c.prefix)-1]
}

// Len returns the number of events in the snapshot.
func (c *Counter) Len() int {
	return len(c.times)
}
