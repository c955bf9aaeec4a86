// Package taxcal computes tax-year deadline state and elapsed-period progress.
// Pure functions of (taxYear, now); results are never cached because "now"
// changes every invocation.
package taxcal

import (
	"math"
	"time"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

// Filing deadlines for tax year N fall in year N+1.
const (
	paperDeadlineMonth = time.March
	paperDeadlineDay   = 31
	efileDeadlineMonth = time.April
	efileDeadlineDay   = 8
)

// Deadlines returns the filing deadline state for a tax year as of now.
// Day counts are signed ceilings: the deadline day itself counts as 0 days
// left, the day after as -1. IsOverdue tracks the e-filing deadline only;
// paper filing lapsing first is expected, not overdue.
func Deadlines(taxYear int, now time.Time) domain.TaxDeadlineInfo {
	paper := time.Date(taxYear+1, paperDeadlineMonth, paperDeadlineDay, 0, 0, 0, 0, now.Location())
	efile := time.Date(taxYear+1, efileDeadlineMonth, efileDeadlineDay, 0, 0, 0, 0, now.Location())

	daysToEfile := ceilDays(now, efile)

	return domain.TaxDeadlineInfo{
		TaxYear:          taxYear,
		PaperDeadline:    paper,
		EFilingDeadline:  efile,
		DaysUntilPaper:   ceilDays(now, paper),
		DaysUntilEFiling: daysToEfile,
		IsOverdue:        daysToEfile < 0,
	}
}

// YearProgress reports how far through the tax (calendar) year now is.
// Percent is clamped to [0,100]; days and months remaining never go below
// zero; months remaining is a ceiling, so any part of December left counts
// as one month.
func YearProgress(taxYear int, now time.Time) domain.TaxYearProgress {
	yearStart := time.Date(taxYear, time.January, 1, 0, 0, 0, 0, now.Location())
	yearEnd := time.Date(taxYear+1, time.January, 1, 0, 0, 0, 0, now.Location())

	progress := domain.TaxYearProgress{TaxYear: taxYear}

	switch {
	case now.Before(yearStart):
		progress.DaysRemaining = ceilDays(now, yearEnd)
		progress.MonthsRemaining = 12
		progress.Quarter = 1
	case !now.Before(yearEnd):
		progress.PercentElapsed = 100
		progress.Quarter = 4
	default:
		elapsed := float64(now.Sub(yearStart)) / float64(yearEnd.Sub(yearStart)) * 100
		progress.PercentElapsed = math.Min(100, math.Max(0, elapsed))
		progress.DaysRemaining = ceilDays(now, yearEnd)
		progress.MonthsRemaining = 13 - int(now.Month())
		progress.Quarter = (int(now.Month())-1)/3 + 1
	}

	return progress
}

// ceilDays counts calendar days from now until the instant, rounding partial
// days up. Negative when the instant has passed.
func ceilDays(now, until time.Time) int {
	return int(math.Ceil(until.Sub(now).Hours() / 24))
}
