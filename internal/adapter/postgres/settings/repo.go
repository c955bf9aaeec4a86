// Package settings implements the notification preferences repository using
// PostgreSQL. Preferences live in a single user_settings row seeded by the
// migrations: this is a single-user system.
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ovolkov/fiscus-backend/internal/adapter/postgres"
	"github.com/ovolkov/fiscus-backend/internal/domain"
)

// Repo provides notification preferences persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new settings repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getSQL = `
SELECT daily_reminder_enabled, reminder_hour, reminder_minute, reminder_weekdays,
       deadline_alerts_enabled, budget_alerts_enabled, recurring_alerts_enabled, timezone
FROM user_settings
WHERE id = 1`

const updateSQL = `
UPDATE user_settings
SET daily_reminder_enabled = $1,
    reminder_hour = $2,
    reminder_minute = $3,
    reminder_weekdays = $4,
    deadline_alerts_enabled = $5,
    budget_alerts_enabled = $6,
    recurring_alerts_enabled = $7,
    timezone = $8,
    updated_at = now()
WHERE id = 1`

// Get returns the stored notification preferences.
func (r *Repo) Get(ctx context.Context) (*domain.NotificationPreferences, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		prefs    domain.NotificationPreferences
		weekdays []int32
	)
	err := querier.QueryRow(ctx, getSQL).Scan(
		&prefs.DailyReminderEnabled,
		&prefs.ReminderHour,
		&prefs.ReminderMinute,
		&weekdays,
		&prefs.DeadlineAlertsEnabled,
		&prefs.BudgetAlertsEnabled,
		&prefs.RecurringAlertsEnabled,
		&prefs.Timezone,
	)
	if err != nil {
		return nil, mapError(err, "user_settings")
	}

	prefs.ReminderWeekdays = make([]time.Weekday, 0, len(weekdays))
	for _, d := range weekdays {
		prefs.ReminderWeekdays = append(prefs.ReminderWeekdays, time.Weekday(d))
	}
	return &prefs, nil
}

// Update replaces the stored preferences.
func (r *Repo) Update(ctx context.Context, prefs *domain.NotificationPreferences) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	weekdays := make([]int32, 0, len(prefs.ReminderWeekdays))
	for _, d := range prefs.ReminderWeekdays {
		weekdays = append(weekdays, int32(d))
	}

	tag, err := querier.Exec(ctx, updateSQL,
		prefs.DailyReminderEnabled,
		prefs.ReminderHour,
		prefs.ReminderMinute,
		weekdays,
		prefs.DeadlineAlertsEnabled,
		prefs.BudgetAlertsEnabled,
		prefs.RecurringAlertsEnabled,
		prefs.Timezone,
	)
	if err != nil {
		return mapError(err, "user_settings")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user_settings: %w", domain.ErrNotFound)
	}
	return nil
}

func mapError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", entity, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", entity, domain.ErrAlreadyExists)
		case "23514":
			return fmt.Errorf("%s: %w", entity, domain.ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w", entity, err)
}
