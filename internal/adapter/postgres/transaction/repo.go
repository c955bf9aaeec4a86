// Package transaction implements the Transaction repository using PostgreSQL.
package transaction

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

// Repo provides transaction persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new transaction repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const createSQL = `
INSERT INTO transactions (id, recurring_rule_id, occurrence_date, description, amount, category, occurred_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const latestOccurrenceSQL = `
SELECT occurrence_date
FROM transactions
WHERE recurring_rule_id = $1
ORDER BY occurrence_date DESC
LIMIT 1`

const getByIDSQL = `
SELECT id, recurring_rule_id, occurrence_date, description, amount, category, occurred_at, created_at
FROM transactions
WHERE id = $1`

// Create inserts a transaction. For generated transactions the unique
// (recurring_rule_id, occurrence_date) index guards exactly-once
// materialization: a second insert for the same occurrence returns
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, tx *domain.Transaction) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, createSQL,
		tx.ID, tx.RecurringRuleID, tx.OccurrenceDate,
		tx.Description, tx.Amount, tx.Category, tx.OccurredAt, tx.CreatedAt,
	)
	if err != nil {
		return mapError(err, "transaction", tx.ID)
	}
	return nil
}

// LatestOccurrenceByRule returns the newest occurrence date materialized for
// the rule, or nil when the rule has generated no transactions yet. The
// materializer uses this to re-derive a rule's cursor after a crash between
// transaction insert and cursor advance.
func (r *Repo) LatestOccurrenceByRule(ctx context.Context, ruleID uuid.UUID) (*time.Time, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var occurrence time.Time
	err := querier.QueryRow(ctx, latestOccurrenceSQL, ruleID).Scan(&occurrence)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest occurrence of rule %s: %w", ruleID, err)
	}
	return &occurrence, nil
}

// GetByID returns a transaction by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tx, err := scanTransaction(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, mapError(err, "transaction", id)
	}
	return tx, nil
}

// SpentInPeriod sums expenses (negative amounts) for a category within
// [from, to). The result is a positive figure suitable for comparing against
// a budget's monthly limit.
func (r *Repo) SpentInPeriod(ctx context.Context, category string, from, to time.Time) (float64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.
		Select("COALESCE(SUM(-amount), 0)").
		From("transactions").
		Where(sq.Eq{"category": category}).
		Where(sq.Lt{"amount": 0}).
		Where(sq.GtOrEq{"occurred_at": from}).
		Where(sq.Lt{"occurred_at": to}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build spent query: %w", err)
	}

	var spent float64
	if err := querier.QueryRow(ctx, query, args...).Scan(&spent); err != nil {
		return 0, fmt.Errorf("spent in period for category %q: %w", category, err)
	}
	return spent, nil
}

// ListFilter narrows ListByFilter results. Zero-value fields are ignored.
type ListFilter struct {
	Category        string
	RecurringRuleID *uuid.UUID
	From            time.Time
	To              time.Time
	Limit           int
}

// ListByFilter returns transactions matching the filter, newest first.
func (r *Repo) ListByFilter(ctx context.Context, filter ListFilter) ([]*domain.Transaction, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	builder := psql.
		Select("id", "recurring_rule_id", "occurrence_date", "description", "amount", "category", "occurred_at", "created_at").
		From("transactions").
		OrderBy("occurred_at DESC", "created_at DESC")

	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.RecurringRuleID != nil {
		builder = builder.Where(sq.Eq{"recurring_rule_id": *filter.RecurringRuleID})
	}
	if !filter.From.IsZero() {
		builder = builder.Where(sq.GtOrEq{"occurred_at": filter.From})
	}
	if !filter.To.IsZero() {
		builder = builder.Where(sq.Lt{"occurred_at": filter.To})
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
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.RecurringRuleID,
		&tx.OccurrenceDate,
		&tx.Description,
		&tx.Amount,
		&tx.Category,
		&tx.OccurredAt,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
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
