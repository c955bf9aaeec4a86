// Package notificationlog implements the notification log repository using PostgreSQL.
package notificationlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ovolkov/fiscus-backend/internal/adapter/postgres"
	"github.com/ovolkov/fiscus-backend/internal/domain"
)

// Repo provides notification log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new notification log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const insertSQL = `
INSERT INTO notification_log (id, type, related_id, title, body, priority, is_read, is_sent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const existsSinceSQL = `
SELECT EXISTS(
	SELECT 1 FROM notification_log
	WHERE type = $1 AND related_id IS NOT DISTINCT FROM $2 AND created_at >= $3
)`

const markReadSQL = `
UPDATE notification_log
SET is_read = true
WHERE id = $1`

// Insert records a notification in the log. The log doubles as the dedup
// store, so callers insert only after the notification actually went out.
func (r *Repo) Insert(ctx context.Context, entry *domain.NotificationLogEntry) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, insertSQL,
		entry.ID, string(entry.Type), entry.RelatedID, entry.Title, entry.Body,
		string(entry.Priority), entry.IsRead, entry.IsSent, entry.CreatedAt,
	)
	if err != nil {
		return mapError(err, "notification", entry.ID)
	}
	return nil
}

// ExistsSince reports whether any entry with the same type and related entity
// was logged at or after the given instant. A nil relatedID matches only
// entries with no related entity, so global reminders and per-entity alerts
// deduplicate independently.
func (r *Repo) ExistsSince(ctx context.Context, nType domain.NotificationType, relatedID *uuid.UUID, since time.Time) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	err := querier.QueryRow(ctx, existsSinceSQL, string(nType), relatedID, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check duplicate %s notification: %w", nType, err)
	}
	return exists, nil
}

// MarkRead flags a notification as read. Returns domain.ErrNotFound for an
// unknown ID.
func (r *Repo) MarkRead(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, markReadSQL, id)
	if err != nil {
		return mapError(err, "notification", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListFilter narrows List results. Zero-value fields are ignored.
type ListFilter struct {
	Type       domain.NotificationType
	UnreadOnly bool
	Limit      int
}

// List returns logged notifications, newest first.
func (r *Repo) List(ctx context.Context, filter ListFilter) ([]*domain.NotificationLogEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	builder := psql.
		Select("id", "type", "related_id", "title", "body", "priority", "is_read", "is_sent", "created_at").
		From("notification_log").
		OrderBy("created_at DESC")

	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"type": string(filter.Type)})
	}
	if filter.UnreadOnly {
		builder = builder.Where(sq.Eq{"is_read": false})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var entries []*domain.NotificationLogEntry
	for rows.Next() {
		var entry domain.NotificationLogEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Type,
			&entry.RelatedID,
			&entry.Title,
			&entry.Body,
			&entry.Priority,
			&entry.IsRead,
			&entry.IsSent,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return entries, nil
}

func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503":
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514":
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
