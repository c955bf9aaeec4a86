package domain

import "time"

// TaxDeadlineInfo is derived from (taxYear, now) on demand and never cached:
// the day counts change with every invocation.
type TaxDeadlineInfo struct {
	TaxYear          int
	PaperDeadline    time.Time
	EFilingDeadline  time.Time
	DaysUntilPaper   int
	DaysUntilEFiling int
	IsOverdue        bool
}

// TaxYearProgress describes how far a calendar year has elapsed.
type TaxYearProgress struct {
	TaxYear         int
	PercentElapsed  float64
	DaysRemaining   int
	MonthsRemaining int
	Quarter         int
}
