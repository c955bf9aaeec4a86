// Package budget implements the Budget repository using PostgreSQL.
package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ovolkov/fiscus-backend/internal/adapter/postgres"
	"github.com/ovolkov/fiscus-backend/internal/domain"
)

// Repo provides budget persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new budget repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const budgetColumns = `id, category, monthly_limit, alert_threshold, is_active, created_at, updated_at`

const findActiveSQL = `
SELECT ` + budgetColumns + `
FROM budgets
WHERE is_active
ORDER BY category ASC`

const getByCategorySQL = `
SELECT ` + budgetColumns + `
FROM budgets
WHERE category = $1`

const upsertSQL = `
INSERT INTO budgets (id, category, monthly_limit, alert_threshold, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (category) DO UPDATE
SET monthly_limit = EXCLUDED.monthly_limit,
    alert_threshold = EXCLUDED.alert_threshold,
    is_active = EXCLUDED.is_active,
    updated_at = now()`

// FindActive returns all active budgets ordered by category.
func (r *Repo) FindActive(ctx context.Context) ([]*domain.Budget, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, findActiveSQL)
	if err != nil {
		return nil, fmt.Errorf("find active budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

// GetByCategory returns the budget for a category.
func (r *Repo) GetByCategory(ctx context.Context, category string) (*domain.Budget, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	b, err := scanBudget(querier.QueryRow(ctx, getByCategorySQL, category))
	if err != nil {
		return nil, mapError(err, "budget", category)
	}
	return b, nil
}

// Upsert creates the budget or replaces the limit, threshold and active flag
// of an existing one for the same category.
func (r *Repo) Upsert(ctx context.Context, b *domain.Budget) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, upsertSQL,
		b.ID, b.Category, b.MonthlyLimit, b.AlertThreshold, b.IsActive,
	)
	if err != nil {
		return mapError(err, "budget", b.Category)
	}
	return nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(
		&b.ID,
		&b.Category,
		&b.MonthlyLimit,
		&b.AlertThreshold,
		&b.IsActive,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func mapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, key, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrAlreadyExists)
		case "23503":
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
		case "23514":
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrValidation)
		}
	}
	return fmt.Errorf("%s %s: %w", entity, key, err)
}
