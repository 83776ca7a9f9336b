// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vapeless/vapeless/internal/adapters/repository"
	"github.com/vapeless/vapeless/internal/app"
	"github.com/vapeless/vapeless/internal/domain/model"
)

// planPayload is the wire shape for both GET and PUT /plan.
type planPayload struct {
	UserID           string  `json:"user_id,omitempty"`
	DailyBudgetStart int     `json:"daily_budget_start"`
	PlanDurationDays int     `json:"plan_duration_days"`
	PlanStartMs      *int64  `json:"plan_start_ms,omitempty"`
	QuitDateMs       *int64  `json:"quit_date_ms,omitempty"`
	UnitCost         float64 `json:"unit_cost"`
	UnitsPerPackage  int     `json:"units_per_package"`
	Currency         string  `json:"currency,omitempty"`
}

func planFromModel(p model.PlanConfig) planPayload {
	return planPayload{
		UserID:           p.UserID,
		DailyBudgetStart: p.DailyBudgetStart,
		PlanDurationDays: p.PlanDurationDays,
		PlanStartMs:      p.PlanStartMs,
		QuitDateMs:       p.QuitDateMs,
		UnitCost:         p.UnitCost,
		UnitsPerPackage:  p.UnitsPerPackage,
		Currency:         p.Currency,
	}
}

func (p planPayload) toModel(userID string) model.PlanConfig {
	return model.PlanConfig{
		UserID:           userID,
		DailyBudgetStart: p.DailyBudgetStart,
		PlanDurationDays: p.PlanDurationDays,
		PlanStartMs:      p.PlanStartMs,
		QuitDateMs:       p.QuitDateMs,
		UnitCost:         p.UnitCost,
		UnitsPerPackage:  p.UnitsPerPackage,
		Currency:         p.Currency,
	}
}

// PlanHandler handles the tapering plan endpoints.
type PlanHandler struct {
	deps Dependencies
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(deps Dependencies) *PlanHandler {
	return &PlanHandler{deps: deps}
}

// HandlePlan dispatches /plan by method.
func (h *PlanHandler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handlePut(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *PlanHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_plan"
	plan, err := h.deps.Plan(r.Context(), userParam(r))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, planFromModel(plan))
}

func (h *PlanHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_plan"
	var req planPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = userParam(r)
	}
	plan := app.Onboard(req.toModel(userID), h.deps.NowMs())

	if err := h.deps.SavePlan(r.Context(), plan); err != nil {
		if errors.Is(err, app.ErrInvalidPlan) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, planFromModel(plan))
}
