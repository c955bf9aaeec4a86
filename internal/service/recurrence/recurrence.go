// Package recurrence computes occurrence dates for recurring rules.
package recurrence

import (
	"time"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

// NextOccurrence advances an occurrence date by one cadence step. Pure
// function: no DB, no context, no logger.
//
// Month and year steps clamp to the last valid day of the target month, so a
// rule anchored on the 31st lands on Feb 28 (or 29) and stays on the 28th
// afterwards. Daily and weekly steps are plain day arithmetic.
func NextOccurrence(current time.Time, cadence domain.Cadence, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}

	switch cadence {
	case domain.CadenceDaily:
		return current.AddDate(0, 0, interval)
	case domain.CadenceWeekly:
		return current.AddDate(0, 0, 7*interval)
	case domain.CadenceMonthly:
		return addMonthsClamped(current, interval)
	case domain.CadenceYearly:
		return addMonthsClamped(current, 12*interval)
	default:
		// Unknown cadence never silently repeats an occurrence.
		return current.AddDate(0, 0, interval)
	}
}

// Occurrences lists every occurrence from the cursor up to and including
// asOf, capped at limit. ok is false when the cap was hit before reaching
// asOf, meaning the rule has more missed occurrences than the caller is
// willing to materialize in one run.
func Occurrences(cursor time.Time, cadence domain.Cadence, interval int, asOf time.Time, limit int) (dates []time.Time, ok bool) {
	current := cursor
	for !current.After(asOf) {
		if len(dates) == limit {
			return dates, false
		}
		dates = append(dates, current)
		current = NextOccurrence(current, cadence, interval)
	}
	return dates, true
}

// addMonthsClamped shifts the date by months, clamping the day-of-month to the
// target month's length. time.AddDate alone would normalize Jan 31 + 1 month
// into Mar 3.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())

	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
