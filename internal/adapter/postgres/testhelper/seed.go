package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedRule inserts an active recurring rule with the given cadence and cursor.
// Returns the filled domain.RecurringRule.
func SeedRule(t *testing.T, pool *pgxpool.Pool, cadence domain.Cadence, nextDueDate time.Time) domain.RecurringRule {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	rule := domain.RecurringRule{
		ID:          uuid.New(),
		Description: "Test rule " + suffix,
		Amount:      -49.90,
		Category:    "subscriptions",
		Cadence:     cadence,
		Interval:    1,
		NextDueDate: nextDueDate,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO recurring_rules (id, description, amount, category, cadence, interval, next_due_date, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rule.ID, rule.Description, rule.Amount, rule.Category, string(rule.Cadence),
		rule.Interval, rule.NextDueDate, rule.IsActive, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRule insert recurring_rule: %v", err)
	}

	return rule
}

// SeedTransaction inserts a transaction generated from the given rule for the
// given occurrence date. Returns the filled domain.Transaction.
func SeedTransaction(t *testing.T, pool *pgxpool.Pool, rule domain.RecurringRule, occurrence time.Time) domain.Transaction {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	tx := domain.Transaction{
		ID:              uuid.New(),
		RecurringRuleID: &rule.ID,
		OccurrenceDate:  &occurrence,
		Description:     rule.Description,
		Amount:          rule.Amount,
		Category:        rule.Category,
		OccurredAt:      occurrence,
		CreatedAt:       now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO transactions (id, recurring_rule_id, occurrence_date, description, amount, category, occurred_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.RecurringRuleID, tx.OccurrenceDate, tx.Description, tx.Amount, tx.Category, tx.OccurredAt, tx.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTransaction insert transaction: %v", err)
	}

	return tx
}

// SeedManualTransaction inserts a transaction with no rule back-reference.
func SeedManualTransaction(t *testing.T, pool *pgxpool.Pool, category string, amount float64, occurredAt time.Time) domain.Transaction {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	tx := domain.Transaction{
		ID:          uuid.New(),
		Description: "Manual " + suffix,
		Amount:      amount,
		Category:    category,
		OccurredAt:  occurredAt,
		CreatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO transactions (id, description, amount, category, occurred_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		tx.ID, tx.Description, tx.Amount, tx.Category, tx.OccurredAt, tx.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedManualTransaction insert transaction: %v", err)
	}

	return tx
}

// SeedBudget inserts an active budget for a unique category derived from prefix.
func SeedBudget(t *testing.T, pool *pgxpool.Pool, prefix string, limit, threshold float64) domain.Budget {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	budget := domain.Budget{
		ID:             uuid.New(),
		Category:       prefix + "-" + uniqueSuffix(),
		MonthlyLimit:   limit,
		AlertThreshold: threshold,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO budgets (id, category, monthly_limit, alert_threshold, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		budget.ID, budget.Category, budget.MonthlyLimit, budget.AlertThreshold, budget.IsActive, budget.CreatedAt, budget.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBudget insert budget: %v", err)
	}

	return budget
}

// SeedNotification inserts a notification_log entry with the given creation time.
// createdAt in the past lets tests model aged dedup window entries.
func SeedNotification(t *testing.T, pool *pgxpool.Pool, nType domain.NotificationType, relatedID *uuid.UUID, createdAt time.Time) domain.NotificationLogEntry {
	t.Helper()
	ctx := context.Background()

	entry := domain.NotificationLogEntry{
		ID:        uuid.New(),
		Type:      nType,
		RelatedID: relatedID,
		Title:     "Test notification " + uniqueSuffix(),
		Body:      "body",
		Priority:  domain.PriorityNormal,
		IsSent:    true,
		CreatedAt: createdAt,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO notification_log (id, type, related_id, title, body, priority, is_read, is_sent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, string(entry.Type), entry.RelatedID, entry.Title, entry.Body,
		string(entry.Priority), entry.IsRead, entry.IsSent, entry.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedNotification insert notification_log: %v", err)
	}

	return entry
}
