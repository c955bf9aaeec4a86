// Package notify decides which notifications to send, deduplicates them
// against the notification log, and dispatches through the delivery channel.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type notificationLogRepo interface {
	ExistsSince(ctx context.Context, nType domain.NotificationType, relatedID *uuid.UUID, since time.Time) (bool, error)
	Insert(ctx context.Context, entry *domain.NotificationLogEntry) error
}

type dispatcher interface {
	Send(ctx context.Context, title, body string, priority domain.NotificationPriority) error
}

type settingsReader interface {
	Get(ctx context.Context) (*domain.NotificationPreferences, error)
}

type dueRuleReader interface {
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.RecurringRule, error)
}

type budgetEvaluator interface {
	Evaluate(ctx context.Context, now time.Time) ([]domain.BudgetAlert, error)
}

type reminderRegistry interface {
	Schedule(key string, at time.Time, fn func(ctx context.Context))
	CancelAll()
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the deduplicated notifier.
type Service struct {
	logStore  notificationLogRepo
	dispatch  dispatcher
	settings  settingsReader
	dueRules  dueRuleReader
	budgets   budgetEvaluator
	reminders reminderRegistry
	log       *slog.Logger
	now       func() time.Time
}

// NewService creates a new notifier.
func NewService(
	log *slog.Logger,
	logStore notificationLogRepo,
	dispatch dispatcher,
	settings settingsReader,
	dueRules dueRuleReader,
	budgets budgetEvaluator,
	reminders reminderRegistry,
) *Service {
	return &Service{
		logStore:  logStore,
		dispatch:  dispatch,
		settings:  settings,
		dueRules:  dueRules,
		budgets:   budgets,
		reminders: reminders,
		log:       log.With("service", "notify"),
		now:       time.Now,
	}
}

// SendIfNotDuplicate dispatches a notification unless one of the same type
// and related entity was already logged at or after windowStart. Returns nil
// without error on a dedup hit. A failed dispatch writes no log entry, so
// the next eligible check retries delivery.
func (s *Service) SendIfNotDuplicate(
	ctx context.Context,
	nType domain.NotificationType,
	relatedID *uuid.UUID,
	windowStart time.Time,
	title, body string,
	priority domain.NotificationPriority,
) (*domain.NotificationLogEntry, error) {
	exists, err := s.logStore.ExistsSince(ctx, nType, relatedID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("dedup check for %s: %w", nType, err)
	}
	if exists {
		s.log.DebugContext(ctx, "notification suppressed as duplicate",
			slog.String("type", string(nType)),
		)
		return nil, nil
	}

	if err := s.dispatch.Send(ctx, title, body, priority); err != nil {
		return nil, fmt.Errorf("dispatch %s: %w", nType, err)
	}

	entry := &domain.NotificationLogEntry{
		ID:        uuid.New(),
		Type:      nType,
		RelatedID: relatedID,
		Title:     title,
		Body:      body,
		Priority:  priority,
		IsSent:    true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.logStore.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("log %s notification: %w", nType, err)
	}

	s.log.InfoContext(ctx, "notification sent",
		slog.String("type", string(nType)),
		slog.String("title", title),
		slog.String("priority", string(priority)),
	)
	return entry, nil
}
