package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vapeless/vapeless/internal/adapters/mq/queue"
	"github.com/vapeless/vapeless/internal/adapters/mq/worker"
	"github.com/vapeless/vapeless/internal/domain/calendar"
	"github.com/vapeless/vapeless/internal/domain/model"
)

// fakeStore is an in-memory Snapshots + UnlockWriter double.
type fakeStore struct {
	mu      sync.Mutex
	events  []model.Event
	plan    model.PlanConfig
	unlocks map[string]int64
}

func newFakeStore(plan model.PlanConfig) *fakeStore {
	return &fakeStore{plan: plan, unlocks: make(map[string]int64)}
}

func (f *fakeStore) EventsByUser(_ context.Context, _ string) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Event(nil), f.events...), nil
}

func (f *fakeStore) PlanByUser(_ context.Context, _ string) (model.PlanConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plan, nil
}

func (f *fakeStore) UnlocksByUser(_ context.Context, _ string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int64, len(f.unlocks))
	for k, v := range f.unlocks {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) RecordUnlock(_ context.Context, rec model.UnlockRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.unlocks[rec.AchievementID]; !ok {
		f.unlocks[rec.AchievementID] = rec.UnlockedAtMs
	}
	return nil
}

func (f *fakeStore) unlockedAt(id string) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.unlocks[id]
	return at, ok
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestEvaluatorPool(t *testing.T) {
	ctx := context.Background()
	clock := calendar.New(calendar.WithLocation(time.UTC))
	quit := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

	Convey("Given a pool over a store with an earnable award", t, func() {
		plan := model.PlanConfig{
			UserID:           "local",
			DailyBudgetStart: 400,
			PlanDurationDays: 30,
			QuitDateMs:       &quit,
		}
		store := newFakeStore(plan)
		q := queue.NewInMemory(queue.WithCapacity(16))
		pool := worker.NewPool(1, q, store, store, clock)
		pool.Start(ctx)

		Convey("When a job arrives a clean day after the quit date", func() {
			loggedAt := quit + model.MillisPerDay
			So(q.Enqueue(ctx, queue.Job{UserID: "local", EventID: "e1", LoggedAtMs: loggedAt}), ShouldBeTrue)

			Convey("Then the unlock is persisted with the job's timestamp", func() {
				found := waitFor(func() bool {
					_, ok := store.unlockedAt("first_day")
					return ok
				})
				So(found, ShouldBeTrue)
				at, _ := store.unlockedAt("first_day")
				So(at, ShouldEqual, loggedAt)
			})
		})

		Reset(func() {
			_ = q.Close()
			pool.Stop()
		})
	})

	Convey("Given a pool whose award is already persisted", t, func() {
		plan := model.PlanConfig{
			UserID:           "local",
			DailyBudgetStart: 400,
			PlanDurationDays: 30,
			QuitDateMs:       &quit,
		}
		store := newFakeStore(plan)
		firstAt := quit + model.MillisPerDay
		store.unlocks["first_day"] = firstAt

		q := queue.NewInMemory(queue.WithCapacity(16))
		pool := worker.NewPool(1, q, store, store, clock)
		pool.Start(ctx)

		Convey("When a later job triggers another pass", func() {
			later := quit + 7*model.MillisPerDay
			So(q.Enqueue(ctx, queue.Job{UserID: "local", EventID: "e2", LoggedAtMs: later}), ShouldBeTrue)

			Convey("Then the original unlock timestamp is preserved", func() {
				// week_warrior unlocking proves the pass completed.
				So(waitFor(func() bool {
					_, found := store.unlockedAt("week_warrior")
					return found
				}), ShouldBeTrue)
				at, _ := store.unlockedAt("first_day")
				So(at, ShouldEqual, firstAt)
			})
		})

		Reset(func() {
			_ = q.Close()
			pool.Stop()
		})
	})
}
