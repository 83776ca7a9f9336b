// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/vapeless/vapeless/internal/domain/model"
)

// eventRequest mirrors the JSON schema for POST /events. Every field
// except the payload defaults: a missing event_id gets a fresh UUID, a
// missing timestamp resolves to now, a missing count to one unit.
type eventRequest struct {
	EventID   string   `json:"event_id"`
	UserID    string   `json:"user_id"`
	Timestamp *int64   `json:"timestamp"`
	Count     *int     `json:"count"`
	Category  string   `json:"category"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (e eventRequest) validate() error {
	if e.Count != nil && *e.Count < 0 {
		return NewKind("api.post_event", ErrBadRequest)
	}
	if e.Timestamp != nil && *e.Timestamp < 0 {
		return NewKind("api.post_event", ErrBadRequest)
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
	Evaluated bool   `json:"evaluation_queued"`
}

type eventResponse struct {
	EventID   string   `json:"event_id"`
	UserID    string   `json:"user_id"`
	Timestamp int64    `json:"timestamp"`
	Count     int      `json:"count"`
	Category  string   `json:"category,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// EventsHandler handles the event collection endpoints.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleEvents dispatches /events by method.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *EventsHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	nowMs := h.deps.NowMs()
	if req.EventID == "" {
		req.EventID = uuid.NewString()
	}
	if req.UserID == "" {
		req.UserID = defaultUser
	}

	// Idempotency check - mark as seen first.
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", EventID: req.EventID, Duplicate: true})
		return
	}

	e := model.Event{
		ID:        req.EventID,
		UserID:    req.UserID,
		Timestamp: nowMs,
		Count:     1,
		Category:  req.Category,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if req.Timestamp != nil {
		e.Timestamp = *req.Timestamp
	}
	if req.Count != nil {
		e.Count = *req.Count
	}

	queued, err := h.deps.LogEvent(r.Context(), e, nowMs)
	if err != nil {
		// Rollback the "seen" status so the client can retry.
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", EventID: req.EventID, Evaluated: queued})
}

func (h *EventsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_events"
	events, err := h.deps.Events(r.Context(), userParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			EventID:   e.ID,
			UserID:    e.UserID,
			Timestamp: e.Timestamp,
			Count:     e.Count,
			Category:  e.Category,
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *EventsHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.clear_events"
	if err := h.deps.ClearData(r.Context(), userParam(r)); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
