// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/vapeless/vapeless/internal/adapters/coach"
	evalqueue "github.com/vapeless/vapeless/internal/adapters/mq/queue"
	evalworker "github.com/vapeless/vapeless/internal/adapters/mq/worker"
	"github.com/vapeless/vapeless/internal/adapters/repository"
	"github.com/vapeless/vapeless/internal/domain/achievement"
	"github.com/vapeless/vapeless/internal/domain/calendar"
	"github.com/vapeless/vapeless/internal/domain/costs"
	"github.com/vapeless/vapeless/internal/domain/dedupe"
	"github.com/vapeless/vapeless/internal/domain/health"
	"github.com/vapeless/vapeless/internal/domain/model"
	"github.com/vapeless/vapeless/internal/domain/pattern"
	"github.com/vapeless/vapeless/internal/domain/streak"
	"github.com/vapeless/vapeless/internal/domain/taper"
	"github.com/vapeless/vapeless/pkg/logger"
	"github.com/vapeless/vapeless/pkg/metrics"
)

// Recent events included as context in coach chat calls.
const coachRecentEvents = 20

// Dashboard is the derived view rendered by the presentation layer.
// Every field is recomputed from the snapshot on each call.
type Dashboard struct {
	CurrentDay  int
	PlanDays    int
	TodayCount  int
	TodayLimit  int
	History     []model.DailyRecord
	Streak      int
	Vitality    []bool
	PeakHour    *pattern.PeakHour
	Costs       costs.Summary
	TotalEvents int
	PlanStarted bool
}

// Service wires the store, evaluation pipeline, dedupe and coach.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	deduper  dedupe.Deduper
	queue    evalqueue.Queue
	pool     *evalworker.Pool
	coach    coach.Client
	clock    calendar.Clock
	vitality streak.Vitality
	defs     []achievement.Definition

	workerCount int
	queueSize   int
	dedupeSize  int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence store. Required before Start.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCoach sets the coach client. Required before Start.
func WithCoach(c coach.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.coach = c
		}
	}
}

// WithClock pins the day-boundary clock.
func WithClock(clock calendar.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithVitality overrides the lives-indicator configuration.
func WithVitality(v streak.Vitality) Option {
	return func(s *Service) {
		s.vitality = v
	}
}

// WithWorkerCount sets the number of evaluation workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithQueueSize bounds the evaluation queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithDedupeSize bounds the idempotency cache.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		clock:       calendar.New(),
		vitality:    streak.NewVitality(),
		defs:        achievement.Defaults,
		workerCount: 4,
		queueSize:   10_000,
		dedupeSize:  50_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the evaluation pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	if s.coach == nil {
		s.coach = coach.New("")
	}

	s.deduper = dedupe.NewInMemory(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = evalqueue.NewInMemory(evalqueue.WithCapacity(s.queueSize))
	s.pool = evalworker.NewPool(s.workerCount, s.queue, s.store, s.store, s.clock,
		evalworker.WithDefinitions(s.defs))
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "engine started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop gracefully shuts the pipeline down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping engine...")
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "store close failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "engine stopped")
}

// SeenAndRecord atomically checks and records an event ID.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEventDuplicate()
	}
	return seen
}

// Unrecord releases an event ID so a failed submission can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// LogEvent persists one event and queues an achievement evaluation
// pass. Returns false when the evaluation queue rejected the job; the
// event itself is still stored.
func (s *Service) LogEvent(ctx context.Context, e model.Event, nowMs int64) (bool, error) {
	if err := s.store.AppendEvent(ctx, e); err != nil {
		return false, err
	}
	metrics.RecordEventLogged()

	queued := s.queue.Enqueue(ctx, evalqueue.Job{
		UserID:     e.UserID,
		EventID:    e.ID,
		LoggedAtMs: nowMs,
	})
	if !queued {
		s.logger.Warn(ctx, "evaluation queue full, pass skipped",
			logger.String("user", e.UserID),
			logger.String("event", e.ID),
		)
	}
	return queued, nil
}

// Events returns the user's chronological event snapshot.
func (s *Service) Events(ctx context.Context, userID string) ([]model.Event, error) {
	return s.store.EventsByUser(ctx, userID)
}

// ClearData wipes the user's event collection. Persisted unlocks stay:
// achievements never re-lock.
func (s *Service) ClearData(ctx context.Context, userID string) error {
	if err := s.store.ClearEvents(ctx, userID); err != nil {
		return err
	}
	metrics.RecordEventsCleared()
	s.logger.Info(ctx, "event data cleared", logger.String("user", userID))
	return nil
}

// Plan returns the user's plan config.
func (s *Service) Plan(ctx context.Context, userID string) (model.PlanConfig, error) {
	return s.store.PlanByUser(ctx, userID)
}

// SavePlan validates and stores a plan config. Duration-set membership
// and positive budgets are enforced here; the engine downstream
// assumes validated input.
func (s *Service) SavePlan(ctx context.Context, plan model.PlanConfig) error {
	if err := validatePlan(plan); err != nil {
		return err
	}
	return s.store.SavePlan(ctx, plan)
}

// BuildDashboard derives the full dashboard view at nowMs.
func (s *Service) BuildDashboard(ctx context.Context, userID string, nowMs int64) (Dashboard, error) {
	plan, err := s.store.PlanByUser(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	events, err := s.store.EventsByUser(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	history := taper.BuildHistory(s.clock, events, plan, nowMs)
	d := Dashboard{
		PlanDays:    plan.PlanDurationDays,
		History:     history,
		Streak:      streak.Current(history),
		Vitality:    s.vitality.Lives(history),
		PeakHour:    pattern.FindPeakHour(s.clock, events),
		Costs:       costs.Summarize(events, plan, nowMs),
		PlanStarted: plan.Started(nowMs),
	}
	d.TotalEvents = d.Costs.TotalUnits
	if n := len(history); n > 0 {
		last := history[n-1]
		d.CurrentDay = last.DayIndex
		d.TodayCount = last.EventCount
		d.TodayLimit = last.AllowedLimit
	}
	return d, nil
}

// Achievements evaluates the award set against the user's snapshot,
// merging persisted unlocks.
func (s *Service) Achievements(ctx context.Context, userID string, nowMs int64) ([]achievement.Status, error) {
	plan, err := s.store.PlanByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	events, err := s.store.EventsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked, err := s.store.UnlocksByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return achievement.Evaluate(s.clock, s.defs, events, plan, unlocked, nowMs), nil
}

// HealthMilestones reports recovery progress from the quit date.
func (s *Service) HealthMilestones(ctx context.Context, userID string, nowMs int64) ([]health.Progress, error) {
	plan, err := s.store.PlanByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return health.Evaluate(plan, nowMs), nil
}

// Insight produces the dashboard's one-line coach motivation.
func (s *Service) Insight(ctx context.Context, userID string, nowMs int64) (string, error) {
	d, err := s.BuildDashboard(ctx, userID, nowMs)
	if err != nil {
		return "", err
	}
	plan, err := s.store.PlanByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.coach.DailyInsight(ctx, d.TodayCount, plan)
}

// CoachReply answers a chat message with recent-activity context.
func (s *Service) CoachReply(ctx context.Context, userID, message string, nowMs int64) (string, error) {
	plan, err := s.store.PlanByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	events, err := s.store.EventsByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	recent := len(events)
	if recent > coachRecentEvents {
		recent = coachRecentEvents
	}
	return s.coach.Reply(ctx, message, plan, recent)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		if users, err := s.store.CountUsers(ctx); err == nil {
			stats["trackedUsers"] = users
			metrics.UpdateTrackedUsers(users)
		}
	}
	return stats
}

// NowMs returns the wall-clock in milliseconds. The only place the
// service reads the clock; everything downstream takes nowMs
// explicitly.
func (s *Service) NowMs() int64 {
	return time.Now().UnixMilli()
}
