package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

// RescheduleDailyReminders replaces every standing daily-reminder timer with a
// fresh set derived from the current preferences: cancel-then-replace, never a
// partial update. Call it at startup and whenever preferences change.
func (s *Service) RescheduleDailyReminders(ctx context.Context) error {
	s.reminders.CancelAll()

	prefs, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("read notification preferences: %w", err)
	}
	if !prefs.DailyReminderEnabled {
		s.log.InfoContext(ctx, "daily reminders disabled, none scheduled")
		return nil
	}

	tz := ParseTimezone(prefs.Timezone)
	now := s.now()
	for _, weekday := range prefs.ReminderWeekdays {
		s.scheduleReminder(weekday, nextReminderAt(now, tz, weekday, prefs.ReminderHour, prefs.ReminderMinute))
	}

	s.log.InfoContext(ctx, "daily reminders scheduled",
		slog.Int("count", len(prefs.ReminderWeekdays)),
		slog.String("time", fmt.Sprintf("%02d:%02d", prefs.ReminderHour, prefs.ReminderMinute)),
		slog.String("timezone", prefs.Timezone),
	)
	return nil
}

// scheduleReminder arms the timer for one weekday. On fire it sends the
// reminder (dedup-gated against the calendar day) and re-arms itself one week
// out.
func (s *Service) scheduleReminder(weekday time.Weekday, at time.Time) {
	key := reminderKey(weekday)
	s.reminders.Schedule(key, at, func(ctx context.Context) {
		s.fireReminder(ctx, weekday, at)
	})
}

func (s *Service) fireReminder(ctx context.Context, weekday time.Weekday, firedAt time.Time) {
	prefs, err := s.settings.Get(ctx)
	if err != nil {
		s.log.Warn("reminder fire: read preferences failed", slog.String("error", err.Error()))
		return
	}

	tz := ParseTimezone(prefs.Timezone)
	dayStart := DayStart(s.now(), tz)

	_, err = s.SendIfNotDuplicate(ctx, domain.NotificationDailyReminder, nil, dayStart,
		"Daily check-in", "Record today's expenses and review what's due.", domain.PriorityNormal)
	if err != nil {
		s.log.Warn("reminder dispatch failed", slog.String("error", err.Error()))
	}

	if prefs.DailyReminderEnabled {
		s.scheduleReminder(weekday, firedAt.AddDate(0, 0, 7))
	}
}

// nextReminderAt finds the next instant the reminder for weekday should fire
// in the given timezone, at or after now.
func nextReminderAt(now time.Time, tz *time.Location, weekday time.Weekday, hour, minute int) time.Time {
	local := now.In(tz)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, tz)

	daysAhead := (int(weekday) - int(local.Weekday()) + 7) % 7
	candidate = candidate.AddDate(0, 0, daysAhead)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

func reminderKey(weekday time.Weekday) string {
	return "daily-reminder-" + strings.ToLower(weekday.String())
}
