// Package model contains domain models passed between layers.
package model

// MillisPerDay is the length of one calendar day in milliseconds.
const MillisPerDay int64 = 86_400_000

// Event represents a single logged use event. Events are append-only:
// the engine never edits or deletes one; clearing data replaces the
// whole per-user collection.
type Event struct {
	ID        string   // unique id for idempotency
	UserID    string   // owning user
	Timestamp int64    // milliseconds since epoch
	Count     int      // units logged, typically 1
	Category  string   // tracked substance, empty means the default category
	Latitude  *float64 // capture location, nil when permission was denied
	Longitude *float64
}

// Units returns the event's contribution to bucket totals.
// Negative counts clamp to zero so a malformed row can never reduce a
// daily total.
func (e Event) Units() int {
	if e.Count < 0 {
		return 0
	}
	return e.Count
}

// PlanConfig holds a user's tapering plan and economics settings.
type PlanConfig struct {
	UserID           string
	DailyBudgetStart int    // allowed units on day 1
	PlanDurationDays int    // tapering length, one of SupportedDurations
	PlanStartMs      *int64 // defines day 1 of the plan once set
	QuitDateMs       *int64 // target full-stop date
	UnitCost         float64
	UnitsPerPackage  int
	Currency         string
}

// SupportedDurations enumerates the tapering lengths the product offers.
var SupportedDurations = []int{15, 20, 30, 60}

// DurationSupported reports whether d is an offered tapering length.
func DurationSupported(d int) bool {
	for _, s := range SupportedDurations {
		if s == d {
			return true
		}
	}
	return false
}

// Started reports whether the plan has a start date at or before nowMs.
// A future start date means the plan is configured but not yet active.
func (p PlanConfig) Started(nowMs int64) bool {
	return p.PlanStartMs != nil && *p.PlanStartMs <= nowMs
}

// CostPerUnit derives the money burned by a single unit.
// Returns 0 when the package size is not configured.
func (p PlanConfig) CostPerUnit() float64 {
	if p.UnitsPerPackage <= 0 {
		return 0
	}
	return p.UnitCost / float64(p.UnitsPerPackage)
}

// DailyRecord is one row of the derived tapering ledger. It is computed
// fresh from an event snapshot and never persisted.
type DailyRecord struct {
	DayIndex     int   // 1-based, <= PlanDurationDays
	Date         int64 // local midnight of the calendar day, ms
	EventCount   int   // units logged within [Date, Date+MillisPerDay)
	AllowedLimit int   // budget schedule output for DayIndex
	Success      bool  // EventCount <= AllowedLimit
}

// UnlockRecord pins down when an achievement predicate first flipped true.
// Unlocks are monotonic: once recorded, an achievement never re-locks even
// if historical data is later pruned.
type UnlockRecord struct {
	UserID        string
	AchievementID string
	UnlockedAtMs  int64
}
