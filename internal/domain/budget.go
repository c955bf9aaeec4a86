package domain

import (
	"time"

	"github.com/google/uuid"
)

// Budget caps spending for one category per calendar month.
type Budget struct {
	ID             uuid.UUID
	Category       string
	MonthlyLimit   float64
	AlertThreshold float64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BudgetAlert reports a budget whose spend ratio crossed its alert threshold.
type BudgetAlert struct {
	BudgetID uuid.UUID
	Category string
	Spent    float64
	Limit    float64
	Ratio    float64
}
