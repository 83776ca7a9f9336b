// Package costs derives spend and savings figures from an event
// snapshot and the plan's economics settings.
package costs

import "github.com/vapeless/vapeless/internal/domain/model"

// Millis per day as float, for fractional days-since-quit.
const millisPerDayF = float64(model.MillisPerDay)

// Summary is the money view of a snapshot.
type Summary struct {
	TotalUnits int     // units logged over the whole history
	TotalSpent float64 // TotalUnits * cost per unit
	Saved      float64 // baseline spend avoided since the quit date
	Currency   string
}

// Summarize computes the spend summary. Savings compare the user's
// pre-quit baseline (starting daily budget, every day since the quit
// date) against what was actually logged after it; no quit date means
// zero savings. Negative savings clamp to zero; spending more than the
// baseline is not a debt the UI should display.
func Summarize(events []model.Event, plan model.PlanConfig, nowMs int64) Summary {
	perUnit := plan.CostPerUnit()

	s := Summary{Currency: plan.Currency}
	for i := range events {
		s.TotalUnits += events[i].Units()
	}
	s.TotalSpent = float64(s.TotalUnits) * perUnit

	if plan.QuitDateMs == nil || *plan.QuitDateMs > nowMs {
		return s
	}
	daysSinceQuit := float64(nowMs-*plan.QuitDateMs) / millisPerDayF
	baseline := daysSinceQuit * float64(plan.DailyBudgetStart) * perUnit

	unitsSinceQuit := 0
	for i := range events {
		if events[i].Timestamp >= *plan.QuitDateMs {
			unitsSinceQuit += events[i].Units()
		}
	}
	saved := baseline - float64(unitsSinceQuit)*perUnit
	if saved > 0 {
		s.Saved = saved
	}
	return s
}
