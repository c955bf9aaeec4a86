package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ovolkov/fiscus-backend/internal/service/scheduler"
)

// schedulerService defines the minimal interface needed by SchedulerHandler.
type schedulerService interface {
	RunNow(ctx context.Context) (scheduler.RunResult, error)
	OnStateChange(ctx context.Context, state scheduler.AppState) (scheduler.RunResult, error)
}

// SchedulerHandler serves scheduling trigger endpoints.
type SchedulerHandler struct {
	svc schedulerService
	log *slog.Logger
}

// NewSchedulerHandler creates a SchedulerHandler.
func NewSchedulerHandler(svc schedulerService, logger *slog.Logger) *SchedulerHandler {
	return &SchedulerHandler{svc: svc, log: logger.With("handler", "scheduler")}
}

type stateChangeRequest struct {
	State string `json:"state"`
}

type runResponse struct {
	Ran          bool `json:"ran"`
	Generated    int  `json:"generated"`
	RuleFailures int  `json:"ruleFailures"`
}

// Refresh handles POST /scheduler/refresh. It runs the full pipeline now;
// a run already in flight makes this a no-op with ran=false.
func (h *SchedulerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.RunNow(r.Context())
	if err != nil {
		// Partial results are still reported: individual rule or check
		// failures do not invalidate what did run.
		h.log.ErrorContext(r.Context(), "scheduler run had failures", slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusOK, runResponse{
		Ran:          res.Ran,
		Generated:    res.Generated,
		RuleFailures: res.RuleFailures,
	})
}

// StateChange handles POST /scheduler/state. Clients report lifecycle
// transitions; only the edge into "active" triggers a run.
func (h *SchedulerHandler) StateChange(w http.ResponseWriter, r *http.Request) {
	var req stateChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state := scheduler.AppState(req.State)
	switch state {
	case scheduler.StateActive, scheduler.StateBackground, scheduler.StateInactive:
	default:
		writeError(w, http.StatusBadRequest, "unknown state")
		return
	}

	res, err := h.svc.OnStateChange(r.Context(), state)
	if err != nil {
		h.log.ErrorContext(r.Context(), "scheduler run had failures", slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusOK, runResponse{
		Ran:          res.Ran,
		Generated:    res.Generated,
		RuleFailures: res.RuleFailures,
	})
}
