package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cadence represents how often a recurring rule produces an occurrence.
type Cadence string

const (
	CadenceDaily   Cadence = "DAILY"
	CadenceWeekly  Cadence = "WEEKLY"
	CadenceMonthly Cadence = "MONTHLY"
	CadenceYearly  Cadence = "YEARLY"
)

func (c Cadence) String() string { return string(c) }

func (c Cadence) IsValid() bool {
	switch c {
	case CadenceDaily, CadenceWeekly, CadenceMonthly, CadenceYearly:
		return true
	}
	return false
}

// RecurringRule is a template for transactions that repeat on a fixed cadence.
//
// NextDueDate is the cursor: the earliest occurrence that has not been
// materialized yet. It advances strictly forward on every successful
// materialization and is mutated only by the materializer. Rules are
// deactivated rather than deleted so generated history keeps its reference.
type RecurringRule struct {
	ID          uuid.UUID
	Description string
	Amount      float64
	Category    string
	Cadence     Cadence
	Interval    int
	NextDueDate time.Time
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsDue returns true if the rule is active and its cursor is at or before asOf.
func (r *RecurringRule) IsDue(asOf time.Time) bool {
	return r.IsActive && !r.NextDueDate.After(asOf)
}

// Validate checks the template fields a materializer depends on.
func (r *RecurringRule) Validate() error {
	if r.Description == "" {
		return NewValidationError("description", "cannot be empty")
	}
	if !r.Cadence.IsValid() {
		return NewValidationError("cadence", "unknown cadence "+string(r.Cadence))
	}
	if r.Interval < 1 {
		return NewValidationError("interval", "must be at least 1")
	}
	if r.NextDueDate.IsZero() {
		return NewValidationError("next_due_date", "cannot be zero")
	}
	return nil
}
