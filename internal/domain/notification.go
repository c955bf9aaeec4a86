package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the class of a notification. The set is closed:
// dedup window semantics are defined per type.
type NotificationType string

const (
	NotificationDailyReminder NotificationType = "DAILY_REMINDER"
	NotificationTaxDeadline   NotificationType = "TAX_DEADLINE"
	NotificationBudgetAlert   NotificationType = "BUDGET_ALERT"
	NotificationRecurringDue  NotificationType = "RECURRING_DUE"
	NotificationCustom        NotificationType = "CUSTOM"
)

func (t NotificationType) String() string { return string(t) }

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationDailyReminder, NotificationTaxDeadline, NotificationBudgetAlert,
		NotificationRecurringDue, NotificationCustom:
		return true
	}
	return false
}

// NotificationPriority controls delivery prominence.
type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "NORMAL"
	PriorityHigh   NotificationPriority = "HIGH"
)

func (p NotificationPriority) String() string { return string(p) }

// NotificationLogEntry is the audit record of one dispatched notification.
// Entries are written by the notifier after a successful dispatch; only the
// read flag changes afterwards.
type NotificationLogEntry struct {
	ID        uuid.UUID
	Type      NotificationType
	RelatedID *uuid.UUID
	Title     string
	Body      string
	Priority  NotificationPriority
	IsRead    bool
	IsSent    bool
	CreatedAt time.Time
}

// NotificationPreferences is a read-only view over externally persisted
// settings. Writes go through the settings layer; the notifier only needs to
// re-schedule standing reminders when they change.
type NotificationPreferences struct {
	DailyReminderEnabled   bool
	ReminderHour           int
	ReminderMinute         int
	ReminderWeekdays       []time.Weekday
	DeadlineAlertsEnabled  bool
	BudgetAlertsEnabled    bool
	RecurringAlertsEnabled bool
	Timezone               string
}
