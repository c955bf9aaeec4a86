package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a concrete financial record. Transactions produced by the
// materializer carry a back-reference to their rule and the occurrence date
// they were generated for; manually entered transactions carry neither.
type Transaction struct {
	ID              uuid.UUID
	RecurringRuleID *uuid.UUID
	OccurrenceDate  *time.Time
	Description     string
	Amount          float64
	Category        string
	OccurredAt      time.Time
	CreatedAt       time.Time
}

// IsGenerated returns true if this transaction was materialized from a rule.
func (t *Transaction) IsGenerated() bool {
	return t.RecurringRuleID != nil
}
