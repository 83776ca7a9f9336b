// Package worker runs the asynchronous achievement evaluation pool.
//
// Each logged event enqueues a job; a worker loads the user's fresh
// snapshot, finds predicates that newly flipped true and persists their
// unlock records. Evaluation is recompute-from-scratch, so losing a job
// is harmless: the next pass sees the same snapshot state.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/vapeless/vapeless/internal/adapters/mq/queue"
	"github.com/vapeless/vapeless/internal/domain/achievement"
	"github.com/vapeless/vapeless/internal/domain/calendar"
	"github.com/vapeless/vapeless/internal/domain/model"
	"github.com/vapeless/vapeless/pkg/logger"
	"github.com/vapeless/vapeless/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 4
	workerShutdownTimeout = 5 * time.Second
)

// Snapshots loads the immutable inputs of an evaluation pass.
type Snapshots interface {
	EventsByUser(ctx context.Context, userID string) ([]model.Event, error)
	PlanByUser(ctx context.Context, userID string) (model.PlanConfig, error)
	UnlocksByUser(ctx context.Context, userID string) (map[string]int64, error)
}

// UnlockWriter persists first unlocks.
type UnlockWriter interface {
	RecordUnlock(ctx context.Context, rec model.UnlockRecord) error
}

// Dequeuer defines how workers receive jobs.
type Dequeuer interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Evaluator processes evaluation jobs.
type Evaluator struct {
	queue   Dequeuer
	store   Snapshots
	writer  UnlockWriter
	clock   calendar.Clock
	defs    []achievement.Definition
	name    string
	logger  logger.Logger
	done    chan struct{}
	stopped chan struct{}
}

// Option applies a configuration option to an Evaluator.
type Option func(*Evaluator)

// WithName names the worker for log attribution.
func WithName(name string) Option {
	return func(e *Evaluator) {
		if name != "" {
			e.name = name
			e.logger = logger.Named(name)
		}
	}
}

// WithDefinitions overrides the evaluated award set.
func WithDefinitions(defs []achievement.Definition) Option {
	return func(e *Evaluator) {
		if len(defs) > 0 {
			e.defs = defs
		}
	}
}

// NewEvaluator creates a worker with configuration options.
func NewEvaluator(q Dequeuer, store Snapshots, writer UnlockWriter, clock calendar.Clock, opts ...Option) *Evaluator {
	e := &Evaluator{
		queue:   q,
		store:   store,
		writer:  writer,
		clock:   clock,
		defs:    achievement.Defaults,
		name:    "evaluator",
		logger:  logger.Named("evaluator"),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run consumes jobs until ctx is canceled or the queue closes.
func (e *Evaluator) Run(ctx context.Context) {
	defer close(e.done)

	jobs := e.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopped:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := e.process(ctx, job); err != nil {
				metrics.RecordEvaluationError()
				e.logger.Error(ctx, "evaluation pass failed",
					logger.String("user", job.UserID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker and waits for the current job to finish.
func (e *Evaluator) Shutdown(ctx context.Context) error {
	close(e.stopped)
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("evaluator shutdown timed out: %w", ctx.Err())
	}
}

// process runs one evaluation pass for a user.
func (e *Evaluator) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordEvaluationLatency(float64(time.Since(start).Milliseconds()))
	}()
	metrics.RecordEvaluation()

	plan, err := e.store.PlanByUser(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("load plan for %s: %w", job.UserID, err)
	}
	events, err := e.store.EventsByUser(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("load events for %s: %w", job.UserID, err)
	}
	unlocked, err := e.store.UnlocksByUser(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("load unlocks for %s: %w", job.UserID, err)
	}

	earned := achievement.NewlyEarned(e.clock, e.defs, events, plan, unlocked, job.LoggedAtMs)
	for _, id := range earned {
		rec := model.UnlockRecord{
			UserID:        job.UserID,
			AchievementID: id,
			UnlockedAtMs:  job.LoggedAtMs,
		}
		if err := e.writer.RecordUnlock(ctx, rec); err != nil {
			return fmt.Errorf("persist unlock %s: %w", id, err)
		}
		metrics.RecordUnlock()
		e.logger.Info(ctx, "achievement unlocked",
			logger.String("user", job.UserID),
			logger.String("achievement", id),
		)
	}
	return nil
}

// Pool manages a set of evaluators.
type Pool struct {
	workers []*Evaluator
	logger  logger.Logger
}

// NewPool creates workerCount evaluators over the shared queue.
func NewPool(workerCount int, q Dequeuer, store Snapshots, writer UnlockWriter, clock calendar.Clock, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}
	p := &Pool{
		workers: make([]*Evaluator, workerCount),
		logger:  logger.Named("evaluator-pool"),
	}
	for i := 0; i < workerCount; i++ {
		named := append([]Option{WithName("evaluator-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewEvaluator(q, store, writer, clock, named...)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all evaluators.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop shuts every evaluator down, bounded by a per-worker timeout.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker stop timed out", logger.String("worker", w.name))
		}
		cancel()
	}
}
