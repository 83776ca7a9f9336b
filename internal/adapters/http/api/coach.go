// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vapeless/vapeless/internal/adapters/repository"
)

type chatRequest struct {
	Message string `json:"message"`
}

type coachResponse struct {
	Text string `json:"text"`
}

// CoachHandler handles AI coach requests.
type CoachHandler struct {
	deps Dependencies
}

// NewCoachHandler creates a new coach handler.
func NewCoachHandler(deps Dependencies) *CoachHandler {
	return &CoachHandler{deps: deps}
}

// HandleInsight handles GET /coach/insight requests.
func (h *CoachHandler) HandleInsight(w http.ResponseWriter, r *http.Request) {
	const op = "api.coach_insight"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	nowMs, err := nowParam(r, h.deps)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	text, err := h.deps.Insight(r.Context(), userParam(r), nowMs)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, coachResponse{Text: text})
}

// HandleChat handles POST /coach/chat requests.
func (h *CoachHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	const op = "api.coach_chat"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	text, err := h.deps.CoachReply(r.Context(), userParam(r), req.Message, h.deps.NowMs())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, coachResponse{Text: text})
}
