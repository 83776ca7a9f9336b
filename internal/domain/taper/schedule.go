// Package taper implements the declining daily-budget schedule and the
// day-by-day ledger derived from it.
//
// The schedule is a linear decay from the configured starting budget on
// day 1 toward zero at planDurationDays+1, floored to an integer. The
// floor means the allowance can legitimately hit zero before the plan's
// nominal end.
package taper

import "math"

// AllowedForDay returns the number of units permitted on the given
// 1-based plan day. The function is total: indices past the plan length
// return 0, indices below 1 are treated as day 1, and a non-positive
// plan duration returns 0 rather than dividing by zero. Duration
// validation belongs at the configuration boundary, not here.
func AllowedForDay(day1Based, dailyBudgetStart, planDurationDays int) int {
	if planDurationDays <= 0 || dailyBudgetStart <= 0 {
		return 0
	}
	if day1Based > planDurationDays {
		return 0
	}
	if day1Based < 1 {
		day1Based = 1
	}
	factor := 1 - float64(day1Based-1)/float64(planDurationDays)
	if factor < 0 {
		factor = 0
	}
	return int(math.Floor(float64(dailyBudgetStart) * factor))
}
