// Package budget evaluates monthly spend against configured budget limits.
package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

type budgetRepo interface {
	FindActive(ctx context.Context) ([]*domain.Budget, error)
}

type spendReader interface {
	SpentInPeriod(ctx context.Context, category string, from, to time.Time) (float64, error)
}

// Service computes which budgets have crossed their alert threshold.
type Service struct {
	budgets budgetRepo
	spend   spendReader
	log     *slog.Logger
}

// NewService creates a new budget evaluator.
func NewService(log *slog.Logger, budgets budgetRepo, spend spendReader) *Service {
	return &Service{
		budgets: budgets,
		spend:   spend,
		log:     log.With("service", "budget"),
	}
}

// Evaluate returns an alert for every active budget whose spend in the
// calendar month containing now has reached its alert threshold.
func (s *Service) Evaluate(ctx context.Context, now time.Time) ([]domain.BudgetAlert, error) {
	budgets, err := s.budgets.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active budgets: %w", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	var alerts []domain.BudgetAlert
	for _, b := range budgets {
		if b.MonthlyLimit <= 0 {
			continue
		}

		spent, err := s.spend.SpentInPeriod(ctx, b.Category, monthStart, nextMonth)
		if err != nil {
			return alerts, fmt.Errorf("spend for category %q: %w", b.Category, err)
		}

		ratio := spent / b.MonthlyLimit
		if ratio < b.AlertThreshold {
			continue
		}

		s.log.DebugContext(ctx, "budget threshold crossed",
			slog.String("category", b.Category),
			slog.Float64("ratio", ratio),
		)
		alerts = append(alerts, domain.BudgetAlert{
			BudgetID: b.ID,
			Category: b.Category,
			Spent:    spent,
			Limit:    b.MonthlyLimit,
			Ratio:    ratio,
		})
	}
	return alerts, nil
}
