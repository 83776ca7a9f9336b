package taper

import (
	"github.com/vapeless/vapeless/internal/domain/bucket"
	"github.com/vapeless/vapeless/internal/domain/calendar"
	"github.com/vapeless/vapeless/internal/domain/model"
)

// BuildHistory produces the ordered tapering ledger: one DailyRecord per
// plan day from 1 through the current day, ascending by day index.
// Callers wanting "most recent first" reverse it themselves; that is a
// presentation concern.
//
// The result is fully determined by (events, plan, nowMs): no hidden
// clock reads, so identical snapshots yield identical ledgers. A plan
// with no start date yields an empty ledger ("plan not yet active").
func BuildHistory(clock calendar.Clock, events []model.Event, plan model.PlanConfig, nowMs int64) []model.DailyRecord {
	if plan.PlanStartMs == nil || plan.PlanDurationDays <= 0 {
		return nil
	}
	planStart := *plan.PlanStartMs

	currentDay := clock.DayIndex(nowMs, planStart) + 1
	if currentDay > plan.PlanDurationDays {
		currentDay = plan.PlanDurationDays
	}
	if currentDay < 1 {
		return nil
	}

	counter := bucket.NewCounter(events)
	history := make([]model.DailyRecord, 0, currentDay)
	for day := 1; day <= currentDay; day++ {
		dayTs := planStart + int64(day-1)*model.MillisPerDay
		start := clock.DayStart(dayTs)
		end := start + model.MillisPerDay
		count := counter.CountInRange(start, end)
		limit := AllowedForDay(day, plan.DailyBudgetStart, plan.PlanDurationDays)
		history = append(history, model.DailyRecord{
			DayIndex:     day,
			Date:         start,
			EventCount:   count,
			AllowedLimit: limit,
			Success:      count <= limit,
		})
	}
	return history
}
