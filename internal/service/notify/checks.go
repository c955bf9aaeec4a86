package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ovolkov/fiscus-backend/internal/domain"
	"github.com/ovolkov/fiscus-backend/internal/service/taxcal"
)

// RunDailyChecks evaluates the four notification classes for the tax year.
// Every check runs even if an earlier one fails; failures are joined into the
// returned error. Checks are best-effort background work: a failure here is
// logged, never fatal to the caller's pipeline.
func (s *Service) RunDailyChecks(ctx context.Context, taxYear int) error {
	prefs, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("read notification preferences: %w", err)
	}

	now := s.now()
	tz := ParseTimezone(prefs.Timezone)
	dayStart := DayStart(now, tz)

	var errs []error
	if prefs.DeadlineAlertsEnabled {
		if err := s.checkTaxDeadline(ctx, taxYear, now, dayStart); err != nil {
			s.log.WarnContext(ctx, "tax deadline check failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if prefs.RecurringAlertsEnabled {
		if err := s.checkRecurringDue(ctx, now, tz, dayStart); err != nil {
			s.log.WarnContext(ctx, "recurring due check failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if prefs.BudgetAlertsEnabled {
		if err := s.checkBudgets(ctx, now); err != nil {
			s.log.WarnContext(ctx, "budget check failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if prefs.DailyReminderEnabled && containsWeekday(prefs.ReminderWeekdays, now.In(tz).Weekday()) {
		_, err := s.SendIfNotDuplicate(ctx, domain.NotificationDailyReminder, nil, dayStart,
			"Daily check-in", "Record today's expenses and review what's due.", domain.PriorityNormal)
		if err != nil {
			s.log.WarnContext(ctx, "daily reminder failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// checkTaxDeadline fires once per calendar day when the e-filing countdown
// sits on a threshold: 30 days, 7 days, 1 day, or any day overdue. Severity
// escalates as the deadline tightens.
func (s *Service) checkTaxDeadline(ctx context.Context, taxYear int, now, dayStart time.Time) error {
	info := taxcal.Deadlines(taxYear, now)

	var (
		title    string
		body     string
		priority domain.NotificationPriority
	)
	switch {
	case info.IsOverdue:
		title = fmt.Sprintf("Tax return %d overdue", taxYear)
		body = fmt.Sprintf("The e-filing deadline passed %d day(s) ago.", -info.DaysUntilEFiling)
		priority = domain.PriorityHigh
	case info.DaysUntilEFiling == 1:
		title = fmt.Sprintf("Tax return %d due tomorrow", taxYear)
		body = "E-filing closes tomorrow."
		priority = domain.PriorityHigh
	case info.DaysUntilEFiling == 7:
		title = fmt.Sprintf("Tax return %d due in a week", taxYear)
		body = fmt.Sprintf("E-filing deadline is %s.", info.EFilingDeadline.Format("January 2"))
		priority = domain.PriorityNormal
	case info.DaysUntilEFiling == 30:
		title = fmt.Sprintf("Tax return %d due in 30 days", taxYear)
		body = fmt.Sprintf("E-filing deadline is %s.", info.EFilingDeadline.Format("January 2"))
		priority = domain.PriorityNormal
	default:
		return nil
	}

	_, err := s.SendIfNotDuplicate(ctx, domain.NotificationTaxDeadline, nil, dayStart, title, body, priority)
	return err
}

// checkRecurringDue fires per active rule whose cursor falls on today or
// tomorrow in the user's timezone.
func (s *Service) checkRecurringDue(ctx context.Context, now time.Time, tz *time.Location, dayStart time.Time) error {
	local := now.In(tz)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	rules, err := s.dueRules.FindDueBetween(ctx, today, tomorrow)
	if err != nil {
		return fmt.Errorf("list rules due soon: %w", err)
	}

	var errs []error
	for _, rule := range rules {
		var title string
		if rule.NextDueDate.After(today) {
			title = fmt.Sprintf("%s due tomorrow", rule.Description)
		} else {
			title = fmt.Sprintf("%s due today", rule.Description)
		}
		body := fmt.Sprintf("%.2f in %s", rule.Amount, rule.Category)

		ruleID := rule.ID
		_, err := s.SendIfNotDuplicate(ctx, domain.NotificationRecurringDue, &ruleID, dayStart,
			title, body, domain.PriorityNormal)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// checkBudgets fires per budget over its alert threshold, deduplicated over a
// rolling 24 hours rather than the calendar day.
func (s *Service) checkBudgets(ctx context.Context, now time.Time) error {
	alerts, err := s.budgets.Evaluate(ctx, now)
	if err != nil {
		return fmt.Errorf("evaluate budgets: %w", err)
	}

	windowStart := now.Add(-24 * time.Hour)

	var errs []error
	for _, alert := range alerts {
		priority := domain.PriorityNormal
		title := fmt.Sprintf("Budget %q at %.0f%%", alert.Category, alert.Ratio*100)
		if alert.Ratio >= 1 {
			priority = domain.PriorityHigh
			title = fmt.Sprintf("Budget %q exceeded", alert.Category)
		}
		body := fmt.Sprintf("Spent %.2f of %.2f this month.", alert.Spent, alert.Limit)

		budgetID := alert.BudgetID
		_, err := s.SendIfNotDuplicate(ctx, domain.NotificationBudgetAlert, &budgetID, windowStart,
			title, body, priority)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func containsWeekday(days []time.Weekday, day time.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
