package notify

import "time"

// DayStart returns the start of the current day in the given timezone,
// converted to UTC. Dedup windows for calendar-day notification types are
// anchored here.
func DayStart(now time.Time, tz *time.Location) time.Time {
	local := now.In(tz)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
	return dayStart.UTC()
}

// ParseTimezone parses a timezone string, returning UTC as fallback.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
