// Package materialize turns due recurring rule occurrences into transactions.
package materialize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ovolkov/fiscus-backend/internal/domain"
	"github.com/ovolkov/fiscus-backend/internal/service/recurrence"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type ruleRepo interface {
	FindActiveDue(ctx context.Context, asOf time.Time) ([]*domain.RecurringRule, error)
	AdvanceCursor(ctx context.Context, id uuid.UUID, nextDueDate time.Time) error
}

type transactionRepo interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	LatestOccurrenceByRule(ctx context.Context, ruleID uuid.UUID) (*time.Time, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the recurring transaction materializer.
type Service struct {
	rules        ruleRepo
	transactions transactionRepo
	tx           txManager
	log          *slog.Logger
	catchUpLimit int
}

// NewService creates a new materializer. catchUpLimit bounds how many missed
// occurrences one run materializes per rule before reporting the rule as an
// error instead of looping.
func NewService(
	log *slog.Logger,
	rules ruleRepo,
	transactions transactionRepo,
	tx txManager,
	catchUpLimit int,
) *Service {
	if catchUpLimit < 1 {
		catchUpLimit = 365
	}
	return &Service{
		rules:        rules,
		transactions: transactions,
		tx:           tx,
		log:          log.With("service", "materialize"),
		catchUpLimit: catchUpLimit,
	}
}

// RuleError pairs a rule with the error that stopped its materialization.
type RuleError struct {
	RuleID uuid.UUID
	Err    error
}

func (e RuleError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.RuleID, e.Err)
}

func (e RuleError) Unwrap() error { return e.Err }

// Result reports one ProcessDue run.
type Result struct {
	Generated []*domain.Transaction
	Errors    []RuleError
}

// ProcessDue materializes every occurrence due at or before asOf, advancing
// each rule's cursor past asOf. Failures are isolated per rule: one bad rule
// never aborts the others. A storage failure while listing rules returns an
// empty result and the error.
func (s *Service) ProcessDue(ctx context.Context, asOf time.Time) (Result, error) {
	rules, err := s.rules.FindActiveDue(ctx, asOf)
	if err != nil {
		s.log.ErrorContext(ctx, "list due rules failed", slog.String("error", err.Error()))
		return Result{}, fmt.Errorf("list due rules: %w", err)
	}

	var result Result
	for _, rule := range rules {
		generated, err := s.processRule(ctx, rule, asOf)
		result.Generated = append(result.Generated, generated...)
		if err != nil {
			s.log.WarnContext(ctx, "rule materialization failed",
				slog.String("rule_id", rule.ID.String()),
				slog.Int("generated", len(generated)),
				slog.String("error", err.Error()),
			)
			result.Errors = append(result.Errors, RuleError{RuleID: rule.ID, Err: err})
		}
	}

	s.log.InfoContext(ctx, "materialization run finished",
		slog.Time("as_of", asOf),
		slog.Int("rules", len(rules)),
		slog.Int("generated", len(result.Generated)),
		slog.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// processRule walks the rule's occurrences from its cursor through asOf,
// materializing each inside one transaction with the cursor advance.
func (s *Service) processRule(ctx context.Context, rule *domain.RecurringRule, asOf time.Time) ([]*domain.Transaction, error) {
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("malformed rule template: %w", err)
	}

	cursor, err := s.reconcileCursor(ctx, rule)
	if err != nil {
		return nil, err
	}

	var generated []*domain.Transaction
	for steps := 0; !cursor.After(asOf); steps++ {
		if steps == s.catchUpLimit {
			return generated, fmt.Errorf("catch-up bound of %d occurrences exceeded: %w",
				s.catchUpLimit, domain.ErrConflict)
		}

		next := recurrence.NextOccurrence(cursor, rule.Cadence, rule.Interval)
		tx := s.buildTransaction(rule, cursor)

		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.transactions.Create(ctx, tx); err != nil {
				return fmt.Errorf("create transaction: %w", err)
			}
			if err := s.rules.AdvanceCursor(ctx, rule.ID, next); err != nil {
				return fmt.Errorf("advance cursor: %w", err)
			}
			return nil
		})
		if err != nil {
			return generated, err
		}

		generated = append(generated, tx)
		cursor = next
	}

	return generated, nil
}

// reconcileCursor recovers from a crash between transaction insert and cursor
// advance in some earlier process: if the latest materialized occurrence is at
// or past the stored cursor, the true cursor is one step after it. The create
// step is never re-run for an occurrence that already has a transaction.
func (s *Service) reconcileCursor(ctx context.Context, rule *domain.RecurringRule) (time.Time, error) {
	latest, err := s.transactions.LatestOccurrenceByRule(ctx, rule.ID)
	if err != nil {
		return time.Time{}, fmt.Errorf("reconcile cursor: %w", err)
	}
	if latest == nil || latest.Before(rule.NextDueDate) {
		return rule.NextDueDate, nil
	}

	recovered := recurrence.NextOccurrence(*latest, rule.Cadence, rule.Interval)
	s.log.WarnContext(ctx, "cursor behind materialized history, recovered",
		slog.String("rule_id", rule.ID.String()),
		slog.Time("stored_cursor", rule.NextDueDate),
		slog.Time("recovered_cursor", recovered),
	)

	if err := s.rules.AdvanceCursor(ctx, rule.ID, recovered); err != nil {
		return time.Time{}, fmt.Errorf("persist recovered cursor: %w", err)
	}
	return recovered, nil
}

func (s *Service) buildTransaction(rule *domain.RecurringRule, occurrence time.Time) *domain.Transaction {
	occ := occurrence
	return &domain.Transaction{
		ID:              uuid.New(),
		RecurringRuleID: &rule.ID,
		OccurrenceDate:  &occ,
		Description:     rule.Description,
		Amount:          rule.Amount,
		Category:        rule.Category,
		OccurredAt:      occ,
		CreatedAt:       time.Now().UTC(),
	}
}
