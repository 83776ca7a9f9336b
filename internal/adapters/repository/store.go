// Package repository defines the persistence store interface and errors.
//
// The store owns the durable inputs of the engine (event snapshots,
// plan configs and achievement unlock records) and supplies them
// wholesale. The engine itself never writes derived values back.
package repository

import (
	"context"

	"github.com/vapeless/vapeless/internal/domain/model"
)

// Store provides read/write access to events, plans and unlock records.
type Store interface {
	// AppendEvent adds one event to the user's collection.
	AppendEvent(ctx context.Context, e model.Event) error

	// EventsByUser returns the user's full event snapshot ordered by
	// timestamp ascending.
	EventsByUser(ctx context.Context, userID string) ([]model.Event, error)

	// ClearEvents replaces the user's event collection with nothing.
	// Events are append-only; this is the only way data ever shrinks.
	ClearEvents(ctx context.Context, userID string) error

	// PlanByUser returns the user's plan config.
	// Returns ErrNotFound when the user has not onboarded.
	PlanByUser(ctx context.Context, userID string) (model.PlanConfig, error)

	// SavePlan inserts or updates the user's plan config.
	SavePlan(ctx context.Context, plan model.PlanConfig) error

	// UnlocksByUser returns the user's persisted unlocks keyed by
	// achievement ID.
	UnlocksByUser(ctx context.Context, userID string) (map[string]int64, error)

	// RecordUnlock persists a first unlock. Writing an achievement that
	// is already unlocked is a no-op: the original timestamp wins.
	RecordUnlock(ctx context.Context, rec model.UnlockRecord) error

	// CountUsers returns the number of users with a stored plan.
	CountUsers(ctx context.Context) (int, error)

	// Close releases the underlying database handle.
	Close() error
}
