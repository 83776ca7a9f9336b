package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vapeless/vapeless/internal/domain/model"
	"github.com/vapeless/vapeless/pkg/metrics"
)

// Default SQLite data source.
const defaultDSN = "vapeless.db"

// eventRow is the persisted shape of model.Event.
type eventRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Timestamp int64  `gorm:"index"`
	Count     int
	Category  string
	Latitude  *float64
	Longitude *float64
}

func (eventRow) TableName() string { return "events" }

// planRow is the persisted shape of model.PlanConfig, one per user.
type planRow struct {
	UserID           string `gorm:"primaryKey"`
	DailyBudgetStart int
	PlanDurationDays int
	PlanStartMs      *int64
	QuitDateMs       *int64
	UnitCost         float64
	UnitsPerPackage  int
	Currency         string
	UpdatedAt        time.Time
}

func (planRow) TableName() string { return "plans" }

// unlockRow is the persisted shape of model.UnlockRecord.
type unlockRow struct {
	UserID        string `gorm:"primaryKey"`
	AchievementID string `gorm:"primaryKey"`
	UnlockedAtMs  int64
}

func (unlockRow) TableName() string { return "unlocks" }

// GormStore implements Store on SQLite through GORM.
type GormStore struct {
	db  *gorm.DB
	dsn string
}

// NewGormStore opens the database, runs migrations and returns the
// store.
func NewGormStore(ctx context.Context, opts ...Option) (*GormStore, error) {
	s := &GormStore{dsn: defaultDSN}
	for _, opt := range opts {
		opt(s)
	}

	db, err := gorm.Open(sqlite.Open(s.dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenStore, err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&eventRow{}, &planRow{}, &unlockRow{}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenStore, err)
	}
	s.db = db
	return s, nil
}

// observe records query latency for the metrics dashboard.
func observe(start time.Time) {
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
}

func (s *GormStore) AppendEvent(ctx context.Context, e model.Event) error {
	defer observe(time.Now())
	row := eventRow{
		ID:        e.ID,
		UserID:    e.UserID,
		Timestamp: e.Timestamp,
		Count:     e.Count,
		Category:  e.Category,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (s *GormStore) EventsByUser(ctx context.Context, userID string) ([]model.Event, error) {
	defer observe(time.Now())
	var rows []eventRow
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&rows).Error; err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("load events: %w", err)
	}
	events := make([]model.Event, len(rows))
	for i, r := range rows {
		events[i] = model.Event{
			ID:        r.ID,
			UserID:    r.UserID,
			Timestamp: r.Timestamp,
			Count:     r.Count,
			Category:  r.Category,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		}
	}
	return events, nil
}

func (s *GormStore) ClearEvents(ctx context.Context, userID string) error {
	defer observe(time.Now())
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&eventRow{}).Error; err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("clear events: %w", err)
	}
	return nil
}

func (s *GormStore) PlanByUser(ctx context.Context, userID string) (model.PlanConfig, error) {
	defer observe(time.Now())
	var row planRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PlanConfig{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreError()
		return model.PlanConfig{}, fmt.Errorf("load plan: %w", err)
	}
	return model.PlanConfig{
		UserID:           row.UserID,
		DailyBudgetStart: row.DailyBudgetStart,
		PlanDurationDays: row.PlanDurationDays,
		PlanStartMs:      row.PlanStartMs,
		QuitDateMs:       row.QuitDateMs,
		UnitCost:         row.UnitCost,
		UnitsPerPackage:  row.UnitsPerPackage,
		Currency:         row.Currency,
	}, nil
}

func (s *GormStore) SavePlan(ctx context.Context, plan model.PlanConfig) error {
	defer observe(time.Now())
	if plan.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidPlan)
	}
	row := planRow{
		UserID:           plan.UserID,
		DailyBudgetStart: plan.DailyBudgetStart,
		PlanDurationDays: plan.PlanDurationDays,
		PlanStartMs:      plan.PlanStartMs,
		QuitDateMs:       plan.QuitDateMs,
		UnitCost:         plan.UnitCost,
		UnitsPerPackage:  plan.UnitsPerPackage,
		Currency:         plan.Currency,
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (s *GormStore) UnlocksByUser(ctx context.Context, userID string) (map[string]int64, error) {
	defer observe(time.Now())
	var rows []unlockRow
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("load unlocks: %w", err)
	}
	unlocks := make(map[string]int64, len(rows))
	for _, r := range rows {
		unlocks[r.AchievementID] = r.UnlockedAtMs
	}
	return unlocks, nil
}

func (s *GormStore) RecordUnlock(ctx context.Context, rec model.UnlockRecord) error {
	defer observe(time.Now())
	row := unlockRow{
		UserID:        rec.UserID,
		AchievementID: rec.AchievementID,
		UnlockedAtMs:  rec.UnlockedAtMs,
	}
	// First write wins; a replayed unlock keeps its original timestamp.
	err := s.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		var existing unlockRow
		lookupErr := s.db.WithContext(ctx).
			Where("user_id = ? AND achievement_id = ?", rec.UserID, rec.AchievementID).
			First(&existing).Error
		if lookupErr == nil {
			return nil
		}
		metrics.RecordStoreError()
		return fmt.Errorf("record unlock: %w", err)
	}
	return nil
}

func (s *GormStore) CountUsers(ctx context.Context) (int, error) {
	defer observe(time.Now())
	var n int64
	if err := s.db.WithContext(ctx).Model(&planRow{}).Count(&n).Error; err != nil {
		metrics.RecordStoreError()
		return 0, fmt.Errorf("count users: %w", err)
	}
	return int(n), nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
