package achievement

import (
	"github.com/vapeless/vapeless/internal/domain/calendar"
	"github.com/vapeless/vapeless/internal/domain/model"
	"github.com/vapeless/vapeless/internal/domain/streak"
	"github.com/vapeless/vapeless/internal/domain/taper"
)

const (
	oneDayMs  = model.MillisPerDay
	oneWeekMs = 7 * model.MillisPerDay

	pennyPincherTarget = 10.0 // currency units saved
	cleanLungsTarget   = 1000 // potential units avoided
	disciplinedDays    = 3
)

// Defaults is the static award set shipped with the product.
var Defaults = []Definition{
	{
		ID:          "first_day",
		Title:       "DAY_ONE_COMPLETE",
		Description: "Survived 24 hours without a single puff.",
		Icon:        "fa-sun",
		Predicate:   firstDay,
	},
	{
		ID:          "penny_pincher",
		Title:       "PENNY_PINCHER",
		Description: "Saved your first $10.00 by not buying pods.",
		Icon:        "fa-piggy-bank",
		Predicate:   pennyPincher,
	},
	{
		ID:          "week_warrior",
		Title:       "WEEK_WARRIOR",
		Description: "7 days since your official quit date.",
		Icon:        "fa-calendar-check",
		Predicate:   weekWarrior,
	},
	{
		ID:          "disciplined",
		Title:       "DISCIPLINED",
		Description: "Stayed under your daily puff budget for 3 days straight.",
		Icon:        "fa-shield-halved",
		Predicate:   disciplined,
	},
	{
		ID:          "clean_lungs",
		Title:       "CLEAN_LUNGS",
		Description: "1000 potential puffs avoided.",
		Icon:        "fa-lungs",
		Predicate:   cleanLungs,
	},
}

// unitsSince sums event units at or after fromMs.
func unitsSince(events []model.Event, fromMs int64) int {
	total := 0
	for i := range events {
		if events[i].Timestamp >= fromMs {
			total += events[i].Units()
		}
	}
	return total
}

// firstDay: 24 clean hours after the quit date.
func firstDay(_ calendar.Clock, events []model.Event, plan model.PlanConfig, nowMs int64) bool {
	if plan.QuitDateMs == nil {
		return false
	}
	quit := *plan.QuitDateMs
	return nowMs-quit >= oneDayMs && unitsSince(events, quit) == 0
}

// pennyPincher: baseline spend avoided since the quit date reaches the
// target. Same arithmetic as the costs summary, kept inline so the
// predicate stays a self-contained function of the snapshot.
func pennyPincher(_ calendar.Clock, events []model.Event, plan model.PlanConfig, nowMs int64) bool {
	if plan.QuitDateMs == nil || plan.UnitsPerPackage <= 0 {
		return false
	}
	quit := *plan.QuitDateMs
	perUnit := plan.CostPerUnit()
	daysSinceQuit := float64(nowMs-quit) / float64(model.MillisPerDay)
	if daysSinceQuit < 0 {
		daysSinceQuit = 0
	}
	potential := daysSinceQuit * float64(plan.DailyBudgetStart) * perUnit
	actual := float64(unitsSince(events, quit)) * perUnit
	return potential-actual >= pennyPincherTarget
}

// weekWarrior: a week has passed since the quit date.
func weekWarrior(_ calendar.Clock, _ []model.Event, plan model.PlanConfig, nowMs int64) bool {
	if plan.QuitDateMs == nil {
		return false
	}
	return nowMs-*plan.QuitDateMs >= oneWeekMs
}

// disciplined: the last three ledger days all passed their budgets.
// Requires at least three elapsed plan days; a one-day-old plan with a
// spotless record has not earned this yet.
func disciplined(clock calendar.Clock, events []model.Event, plan model.PlanConfig, nowMs int64) bool {
	history := taper.BuildHistory(clock, events, plan, nowMs)
	if len(history) < disciplinedDays {
		return false
	}
	return streak.Current(history) >= disciplinedDays
}

// cleanLungs: potential units avoided since the quit date reach the
// target.
func cleanLungs(_ calendar.Clock, events []model.Event, plan model.PlanConfig, nowMs int64) bool {
	if plan.QuitDateMs == nil {
		return false
	}
	quit := *plan.QuitDateMs
	daysSinceQuit := float64(nowMs-quit) / float64(model.MillisPerDay)
	if daysSinceQuit < 0 {
		daysSinceQuit = 0
	}
	potential := daysSinceQuit * float64(plan.DailyBudgetStart)
	return potential-float64(unitsSince(events, quit)) >= cleanLungsTarget
}
