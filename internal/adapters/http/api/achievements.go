// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/vapeless/vapeless/internal/adapters/repository"
)

type achievementResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
	UnlockedAt  *int64 `json:"unlocked_at,omitempty"`
}

// AchievementsHandler handles achievement listing requests.
type AchievementsHandler struct {
	deps Dependencies
}

// NewAchievementsHandler creates a new achievements handler.
func NewAchievementsHandler(deps Dependencies) *AchievementsHandler {
	return &AchievementsHandler{deps: deps}
}

// HandleAchievements handles GET /achievements requests.
func (h *AchievementsHandler) HandleAchievements(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_achievements"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	nowMs, err := nowParam(r, h.deps)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	statuses, err := h.deps.Achievements(r.Context(), userParam(r), nowMs)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	out := make([]achievementResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, achievementResponse{
			ID:          st.ID,
			Title:       st.Title,
			Description: st.Description,
			Icon:        st.Icon,
			Unlocked:    st.Unlocked,
			UnlockedAt:  st.UnlockedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
