// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/vapeless/vapeless/internal/adapters/repository"
	"github.com/vapeless/vapeless/internal/app"
)

type dailyRecordResponse struct {
	DayIndex     int   `json:"day_index"`
	Date         int64 `json:"date"`
	EventCount   int   `json:"event_count"`
	AllowedLimit int   `json:"allowed_limit"`
	Success      bool  `json:"success"`
}

type peakHourResponse struct {
	HourOfDay int `json:"hour_of_day"`
	Count     int `json:"count"`
}

type costsResponse struct {
	TotalUnits int     `json:"total_units"`
	TotalSpent float64 `json:"total_spent"`
	Saved      float64 `json:"saved"`
	Currency   string  `json:"currency,omitempty"`
}

type dashboardResponse struct {
	CurrentDay  int                   `json:"current_day"`
	PlanDays    int                   `json:"plan_days"`
	TodayCount  int                   `json:"today_count"`
	TodayLimit  int                   `json:"today_limit"`
	Streak      int                   `json:"streak"`
	Vitality    []bool                `json:"vitality"`
	PeakHour    *peakHourResponse     `json:"peak_hour"`
	History     []dailyRecordResponse `json:"history"`
	Costs       costsResponse         `json:"costs"`
	TotalEvents int                   `json:"total_events"`
	PlanStarted bool                  `json:"plan_started"`
}

func dashboardFromApp(d app.Dashboard) dashboardResponse {
	out := dashboardResponse{
		CurrentDay:  d.CurrentDay,
		PlanDays:    d.PlanDays,
		TodayCount:  d.TodayCount,
		TodayLimit:  d.TodayLimit,
		Streak:      d.Streak,
		Vitality:    d.Vitality,
		History:     make([]dailyRecordResponse, 0, len(d.History)),
		TotalEvents: d.TotalEvents,
		PlanStarted: d.PlanStarted,
		Costs: costsResponse{
			TotalUnits: d.Costs.TotalUnits,
			TotalSpent: d.Costs.TotalSpent,
			Saved:      d.Costs.Saved,
			Currency:   d.Costs.Currency,
		},
	}
	if d.PeakHour != nil {
		out.PeakHour = &peakHourResponse{HourOfDay: d.PeakHour.HourOfDay, Count: d.PeakHour.Count}
	}
	for _, rec := range d.History {
		out.History = append(out.History, dailyRecordResponse{
			DayIndex:     rec.DayIndex,
			Date:         rec.Date,
			EventCount:   rec.EventCount,
			AllowedLimit: rec.AllowedLimit,
			Success:      rec.Success,
		})
	}
	return out
}

// DashboardHandler handles dashboard snapshot requests.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleDashboard handles GET /dashboard requests.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dashboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	nowMs, err := nowParam(r, h.deps)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	d, err := h.deps.BuildDashboard(r.Context(), userParam(r), nowMs)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, dashboardFromApp(d))
}
