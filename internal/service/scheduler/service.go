package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ovolkov/fiscus-backend/internal/service/materialize"
)

// AppState mirrors the lifecycle states reported by clients.
type AppState string

const (
	StateActive     AppState = "active"
	StateBackground AppState = "background"
	StateInactive   AppState = "inactive"
)

// ---------------------------------------------------------------------------
// Interfaces
// ---------------------------------------------------------------------------

type materializer interface {
	ProcessDue(ctx context.Context, asOf time.Time) (materialize.Result, error)
}

type dailyChecker interface {
	RunDailyChecks(ctx context.Context, taxYear int) error
}

// ---------------------------------------------------------------------------
// Trigger
// ---------------------------------------------------------------------------

// Trigger runs the full scheduling pipeline: materialize due recurring
// occurrences, then evaluate the daily notification checks. Only one run is
// in flight at a time; a trigger arriving mid-run is dropped, not queued,
// because the running pass already covers it.
type Trigger struct {
	mat     materializer
	checks  dailyChecker
	log     *slog.Logger
	taxYear int

	inFlight atomic.Bool

	mu        sync.Mutex
	lastState AppState

	now func() time.Time
}

// NewTrigger builds a Trigger. taxYear 0 means "previous calendar year",
// resolved at each run.
func NewTrigger(log *slog.Logger, mat materializer, checks dailyChecker, taxYear int) *Trigger {
	return &Trigger{
		mat:     mat,
		checks:  checks,
		log:     log.With("service", "scheduler"),
		taxYear: taxYear,
		now:     time.Now,
	}
}

// RunResult summarizes one pipeline pass.
type RunResult struct {
	// Ran is false when the trigger was dropped because a run was already
	// in flight.
	Ran          bool
	Generated    int
	RuleFailures int
}

// RunNow executes one pipeline pass. Concurrent callers collapse to a single
// run: the loser returns immediately with Ran=false and no error. Both stages
// always execute; their failures are joined.
func (t *Trigger) RunNow(ctx context.Context) (RunResult, error) {
	if !t.inFlight.CompareAndSwap(false, true) {
		t.log.DebugContext(ctx, "run already in flight, trigger dropped")
		return RunResult{}, nil
	}
	defer t.inFlight.Store(false)

	now := t.now()
	year := t.taxYear
	if year == 0 {
		year = now.Year() - 1
	}

	var errs []error

	result, err := t.mat.ProcessDue(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("process due rules: %w", err))
	}

	if err := t.checks.RunDailyChecks(ctx, year); err != nil {
		errs = append(errs, fmt.Errorf("daily checks: %w", err))
	}

	res := RunResult{
		Ran:          true,
		Generated:    len(result.Generated),
		RuleFailures: len(result.Errors),
	}
	t.log.InfoContext(ctx, "scheduler run finished",
		slog.Int("generated", res.Generated),
		slog.Int("rule_failures", res.RuleFailures),
		slog.Int("tax_year", year),
	)
	return res, errors.Join(errs...)
}

// OnStateChange feeds a client lifecycle transition into the trigger. The
// pipeline runs only on the edge into the active state; repeated active
// reports and transitions away from active are no-ops.
func (t *Trigger) OnStateChange(ctx context.Context, state AppState) (RunResult, error) {
	t.mu.Lock()
	prev := t.lastState
	t.lastState = state
	t.mu.Unlock()

	if state != StateActive || prev == StateActive {
		t.log.DebugContext(ctx, "state change ignored",
			slog.String("from", string(prev)), slog.String("to", string(state)))
		return RunResult{}, nil
	}
	return t.RunNow(ctx)
}
