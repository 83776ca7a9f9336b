// Package achievement defines the gamified award predicates and their
// evaluator.
//
// Predicates are pure and total: every well-formed snapshot yields a
// boolean, never an error. A predicate that needs the quit date reports
// locked when it is absent. The evaluator itself carries no unlock
// state: persistence of first-unlock timestamps lives in the
// repository, and Evaluate merges those records in so an unlock can
// never silently disappear when history is pruned.
package achievement

import (
	"github.com/vapeless/vapeless/internal/domain/calendar"
	"github.com/vapeless/vapeless/internal/domain/model"
)

// Predicate decides whether an award is earned for the given snapshot.
// nowMs is threaded in explicitly; predicates never read the wall clock.
type Predicate func(clock calendar.Clock, events []model.Event, plan model.PlanConfig, nowMs int64) bool

// Definition is a static, process-wide award description.
type Definition struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Predicate   Predicate
}

// Status is one evaluated award, order-preserving relative to the
// definition list.
type Status struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Unlocked    bool
	UnlockedAt  *int64 // ms; set only when a persisted unlock record exists
}

// Evaluate runs every definition against the snapshot and merges in
// persisted unlock records keyed by achievement ID. A persisted record
// wins even when the predicate has gone false again: unlocks are
// monotonic.
func Evaluate(clock calendar.Clock, defs []Definition, events []model.Event, plan model.PlanConfig, unlocked map[string]int64, nowMs int64) []Status {
	out := make([]Status, 0, len(defs))
	for _, def := range defs {
		st := Status{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
		}
		if at, ok := unlocked[def.ID]; ok {
			st.Unlocked = true
			ts := at
			st.UnlockedAt = &ts
		} else if def.Predicate != nil {
			st.Unlocked = def.Predicate(clock, events, plan, nowMs)
		}
		out = append(out, st)
	}
	return out
}

// NewlyEarned returns the IDs of definitions whose predicate holds now
// but have no persisted unlock record yet. The caller is expected to
// write unlock records for them.
func NewlyEarned(clock calendar.Clock, defs []Definition, events []model.Event, plan model.PlanConfig, unlocked map[string]int64, nowMs int64) []string {
	var ids []string
	for _, def := range defs {
		if _, ok := unlocked[def.ID]; ok {
			continue
		}
		if def.Predicate != nil && def.Predicate(clock, events, plan, nowMs) {
			ids = append(ids, def.ID)
		}
	}
	return ids
}
