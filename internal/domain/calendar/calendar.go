// Package calendar is the single definition of "day boundary" for the
// whole engine. Every component that needs local-midnight math goes
// through here so the tapering ledger, streaks and achievements all
// agree on what a calendar day is.
package calendar

import (
	"time"

	"github.com/vapeless/vapeless/internal/domain/model"
)

// Clock resolves millisecond timestamps against a fixed location.
// A zero Clock is not usable; construct one with New.
type Clock struct {
	loc *time.Location
}

// Option applies a configuration option to the Clock.
type Option func(*Clock)

// WithLocation pins the clock to a specific time zone. The default is
// time.Local, matching how the client device buckets its own days.
func WithLocation(loc *time.Location) Option {
	return func(c *Clock) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// New creates a Clock with configuration options.
func New(opts ...Option) Clock {
	c := Clock{loc: time.Local}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Location returns the clock's time zone.
func (c Clock) Location() *time.Location {
	return c.loc
}

// DayStart returns the millisecond timestamp of local midnight on the
// calendar day containing tsMs. Malformed input (non-positive) clamps to
// the epoch day start rather than erroring; the engine stays total and
// validation belongs at the boundary.
func (c Clock) DayStart(tsMs int64) int64 {
	if tsMs < 0 {
		tsMs = 0
	}
	t := time.UnixMilli(tsMs).In(c.loc)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
	return midnight.UnixMilli()
}

// DayIndex returns floor((tsMs - planStartMs) / day), clamped to >= 0.
// Day 0 is the plan's first calendar day; callers add 1 for the 1-based
// ledger index.
func (c Clock) DayIndex(tsMs, planStartMs int64) int {
	if tsMs <= planStartMs {
		return 0
	}
	return int((tsMs - planStartMs) / model.MillisPerDay)
}

// HourOf returns the local hour of day in [0, 23] for tsMs.
func (c Clock) HourOf(tsMs int64) int {
	if tsMs < 0 {
		tsMs = 0
	}
	return time.UnixMilli(tsMs).In(c.loc).Hour()
}
