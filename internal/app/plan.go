package app

import (
	"fmt"

	"github.com/vapeless/vapeless/internal/domain/model"
)

// validatePlan enforces the constraints the engine assumes: a supported
// duration, a positive daily budget, and sane cost inputs.
func validatePlan(plan model.PlanConfig) error {
	if plan.UserID == "" {
		return fmt.Errorf("%w: user id must not be empty", ErrInvalidPlan)
	}
	if !model.DurationSupported(plan.PlanDurationDays) {
		return fmt.Errorf("%w: duration %d not in %v", ErrInvalidPlan, plan.PlanDurationDays, model.SupportedDurations)
	}
	if plan.DailyBudgetStart < 1 {
		return fmt.Errorf("%w: daily budget must be positive", ErrInvalidPlan)
	}
	if plan.UnitCost < 0 {
		return fmt.Errorf("%w: unit cost must not be negative", ErrInvalidPlan)
	}
	if plan.UnitsPerPackage < 0 {
		return fmt.Errorf("%w: units per package must not be negative", ErrInvalidPlan)
	}
	if plan.PlanStartMs != nil && plan.QuitDateMs != nil && *plan.QuitDateMs < *plan.PlanStartMs {
		return fmt.Errorf("%w: quit date precedes plan start", ErrInvalidPlan)
	}
	return nil
}

// Onboard finalizes a fresh plan: stamps the start at nowMs when unset
// and derives the quit date from the taper duration.
func Onboard(plan model.PlanConfig, nowMs int64) model.PlanConfig {
	if plan.PlanStartMs == nil {
		start := nowMs
		plan.PlanStartMs = &start
	}
	if plan.QuitDateMs == nil {
		quit := *plan.PlanStartMs + int64(plan.PlanDurationDays)*model.MillisPerDay
		plan.QuitDateMs = &quit
	}
	return plan
}
