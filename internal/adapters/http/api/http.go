// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vapeless/vapeless/internal/app"
	"github.com/vapeless/vapeless/internal/domain/achievement"
	"github.com/vapeless/vapeless/internal/domain/health"
	"github.com/vapeless/vapeless/internal/domain/model"
)

// defaultUser is assumed when a request carries no user parameter. The
// single-device deployment never sends one.
const defaultUser = "local"

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to implementations in other
// packages.
type Dependencies interface {
	// Idempotency guard for event submissions.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)

	// Event lifecycle.
	LogEvent(ctx context.Context, e model.Event, nowMs int64) (bool, error)
	Events(ctx context.Context, userID string) ([]model.Event, error)
	ClearData(ctx context.Context, userID string) error

	// Plan lifecycle.
	Plan(ctx context.Context, userID string) (model.PlanConfig, error)
	SavePlan(ctx context.Context, plan model.PlanConfig) error

	// Derived views.
	BuildDashboard(ctx context.Context, userID string, nowMs int64) (app.Dashboard, error)
	Achievements(ctx context.Context, userID string, nowMs int64) ([]achievement.Status, error)
	HealthMilestones(ctx context.Context, userID string, nowMs int64) ([]health.Progress, error)

	// Coach surface.
	Insight(ctx context.Context, userID string, nowMs int64) (string, error)
	CoachReply(ctx context.Context, userID, message string, nowMs int64) (string, error)

	// NowMs is the single wall-clock read per request.
	NowMs() int64
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	eventsHandler       *EventsHandler
	planHandler         *PlanHandler
	dashboardHandler    *DashboardHandler
	achievementsHandler *AchievementsHandler
	milestonesHandler   *MilestonesHandler
	coachHandler        *CoachHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		eventsHandler:       NewEventsHandler(deps),
		planHandler:         NewPlanHandler(deps),
		dashboardHandler:    NewDashboardHandler(deps),
		achievementsHandler: NewAchievementsHandler(deps),
		milestonesHandler:   NewMilestonesHandler(deps),
		coachHandler:        NewCoachHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandleEvents, "events"))
	mux.HandleFunc("/plan", MetricsMiddleware(s.planHandler.HandlePlan, "plan"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/achievements", MetricsMiddleware(s.achievementsHandler.HandleAchievements, "achievements"))
	mux.HandleFunc("/health/milestones", MetricsMiddleware(s.milestonesHandler.HandleMilestones, "milestones"))
	mux.HandleFunc("/coach/insight", MetricsMiddleware(s.coachHandler.HandleInsight, "coach_insight"))
	mux.HandleFunc("/coach/chat", MetricsMiddleware(s.coachHandler.HandleChat, "coach_chat"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// userParam extracts the user id from the query string, falling back to
// the single-device default.
func userParam(r *http.Request) string {
	if u := r.URL.Query().Get("user"); u != "" {
		return u
	}
	return defaultUser
}

// nowParam resolves the evaluation instant: an explicit "at" query
// parameter (epoch ms) wins over the wall clock, which keeps derived
// views reproducible.
func nowParam(r *http.Request, deps Dependencies) (int64, error) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return deps.NowMs(), nil
	}
	at, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, WrapKind("api.now_param", ErrBadRequest, err)
	}
	return at, nil
}
