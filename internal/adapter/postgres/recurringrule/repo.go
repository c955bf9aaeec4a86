// Package recurringrule implements the RecurringRule repository using PostgreSQL.
package recurringrule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ovolkov/fiscus-backend/internal/adapter/postgres"
	"github.com/ovolkov/fiscus-backend/internal/domain"
)

// Repo provides recurring rule persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new recurring rule repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const ruleColumns = `id, description, amount, category, cadence, interval,
       next_due_date, is_active, created_at, updated_at`

const findActiveDueSQL = `
SELECT ` + ruleColumns + `
FROM recurring_rules
WHERE is_active AND next_due_date <= $1
ORDER BY next_due_date ASC, id ASC`

const findDueBetweenSQL = `
SELECT ` + ruleColumns + `
FROM recurring_rules
WHERE is_active AND next_due_date >= $1 AND next_due_date <= $2
ORDER BY next_due_date ASC, id ASC`

const getByIDSQL = `
SELECT ` + ruleColumns + `
FROM recurring_rules
WHERE id = $1`

const advanceCursorSQL = `
UPDATE recurring_rules
SET next_due_date = $2, updated_at = now()
WHERE id = $1 AND next_due_date < $2`

const deactivateSQL = `
UPDATE recurring_rules
SET is_active = false, updated_at = now()
WHERE id = $1`

// FindActiveDue returns active rules whose cursor is at or before asOf,
// oldest cursor first. asOf is truncated to a calendar date: occurrences are
// date-grained.
func (r *Repo) FindActiveDue(ctx context.Context, asOf time.Time) ([]*domain.RecurringRule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, findActiveDueSQL, asOf)
	if err != nil {
		return nil, fmt.Errorf("find active due rules: %w", err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// FindDueBetween returns active rules whose cursor lies within [from, to].
// Used by the notifier for the due-today / due-tomorrow window.
func (r *Repo) FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.RecurringRule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, findDueBetweenSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("find due rules in window: %w", err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// GetByID returns a rule by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringRule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rule, err := scanRule(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, mapError(err, "recurring_rule", id)
	}
	return rule, nil
}

// AdvanceCursor moves a rule's next_due_date strictly forward.
// Returns domain.ErrConflict if the new cursor does not advance the rule:
// the cursor is forward-only and never repeats a value.
func (r *Repo) AdvanceCursor(ctx context.Context, id uuid.UUID, nextDueDate time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, advanceCursorSQL, id, nextDueDate)
	if err != nil {
		return mapError(err, "recurring_rule", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("advance cursor of rule %s to %s: %w",
			id, nextDueDate.Format("2006-01-02"), domain.ErrConflict)
	}
	return nil
}

// Deactivate flags a rule inactive. Rules are never deleted: generated
// transactions keep their back-reference.
func (r *Repo) Deactivate(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deactivateSQL, id)
	if err != nil {
		return mapError(err, "recurring_rule", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recurring_rule %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanRules(rows pgx.Rows) ([]*domain.RecurringRule, error) {
	var rules []*domain.RecurringRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring_rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring_rules: %w", err)
	}
	return rules, nil
}

func scanRule(row pgx.Row) (*domain.RecurringRule, error) {
	var rule domain.RecurringRule
	err := row.Scan(
		&rule.ID,
		&rule.Description,
		&rule.Amount,
		&rule.Category,
		&rule.Cadence,
		&rule.Interval,
		&rule.NextDueDate,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
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
