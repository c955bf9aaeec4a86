package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ovolkov/fiscus-backend/internal/adapter/postgres/notificationlog"
	"github.com/ovolkov/fiscus-backend/internal/domain"
)

// notificationStore defines the minimal interface needed by NotificationsHandler.
type notificationStore interface {
	List(ctx context.Context, filter notificationlog.ListFilter) ([]*domain.NotificationLogEntry, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type reminderScheduler interface {
	RescheduleDailyReminders(ctx context.Context) error
}

// NotificationsHandler serves the notification log and reminder endpoints.
type NotificationsHandler struct {
	store     notificationStore
	reminders reminderScheduler
	log       *slog.Logger
}

// NewNotificationsHandler creates a NotificationsHandler.
func NewNotificationsHandler(store notificationStore, reminders reminderScheduler, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		store:     store,
		reminders: reminders,
		log:       logger.With("handler", "notifications"),
	}
}

type notificationResponse struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	RelatedID *uuid.UUID `json:"relatedId,omitempty"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Priority  string     `json:"priority"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
}

// List handles GET /notifications?type=TAX_DEADLINE&unread=true&limit=50.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := notificationlog.ListFilter{Limit: 50}

	if v := r.URL.Query().Get("type"); v != "" {
		nType := domain.NotificationType(v)
		if !nType.IsValid() {
			writeError(w, http.StatusBadRequest, "unknown notification type")
			return
		}
		filter.Type = nType
	}
	if v := r.URL.Query().Get("unread"); v != "" {
		unread, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid unread flag")
			return
		}
		filter.UnreadOnly = unread
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 500 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	entries, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := make([]notificationResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, notificationResponse{
			ID:        e.ID.String(),
			Type:      e.Type.String(),
			RelatedID: e.RelatedID,
			Title:     e.Title,
			Body:      e.Body,
			Priority:  e.Priority.String(),
			IsRead:    e.IsRead,
			CreatedAt: e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// MarkRead handles POST /notifications/{id}/read.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.store.MarkRead(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Reschedule handles POST /notifications/reschedule. Clients call it after
// changing reminder preferences; all standing timers are replaced.
func (h *NotificationsHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	if err := h.reminders.RescheduleDailyReminders(r.Context()); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *NotificationsHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
