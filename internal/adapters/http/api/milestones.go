// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/vapeless/vapeless/internal/adapters/repository"
)

type milestoneResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	TimeRequired int64  `json:"time_required_s"`
	Percent      int    `json:"percent"`
	Reached      bool   `json:"reached"`
}

// MilestonesHandler handles health milestone requests.
type MilestonesHandler struct {
	deps Dependencies
}

// NewMilestonesHandler creates a new milestones handler.
func NewMilestonesHandler(deps Dependencies) *MilestonesHandler {
	return &MilestonesHandler{deps: deps}
}

// HandleMilestones handles GET /health/milestones requests.
func (h *MilestonesHandler) HandleMilestones(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_milestones"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	nowMs, err := nowParam(r, h.deps)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	progress, err := h.deps.HealthMilestones(r.Context(), userParam(r), nowMs)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	out := make([]milestoneResponse, 0, len(progress))
	for _, p := range progress {
		out = append(out, milestoneResponse{
			ID:           p.Milestone.ID,
			Title:        p.Milestone.Title,
			Description:  p.Milestone.Description,
			Category:     p.Milestone.Category,
			TimeRequired: p.Milestone.TimeRequired,
			Percent:      p.Percent,
			Reached:      p.Reached,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
