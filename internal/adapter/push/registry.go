package push

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Registry holds standing reminder timers keyed by name. Scheduling a key that
// already exists cancels the previous timer first, so a reschedule can never
// leave two timers for the same reminder.
type Registry struct {
	log *slog.Logger

	mu     sync.Mutex
	timers map[string]*standingTimer
	closed bool
}

type standingTimer struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

// NewRegistry creates an empty reminder registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		log:    logger.With("adapter", "push_registry"),
		timers: make(map[string]*standingTimer),
	}
}

// Schedule arms a timer that runs fn once at the given instant. If a timer for
// the key already exists it is cancelled and replaced. An instant in the past
// fires immediately. fn receives a context that is cancelled when the key is
// rescheduled, cancelled, or the registry closes.
func (r *Registry) Schedule(key string, at time.Time, fn func(context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	if existing, ok := r.timers[key]; ok {
		existing.timer.Stop()
		existing.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	st := &standingTimer{cancel: cancel}
	st.timer = time.AfterFunc(delay, func() {
		r.remove(key, st)
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	})
	r.timers[key] = st

	r.log.Debug("reminder scheduled", slog.String("key", key), slog.Time("at", at))
}

// Cancel stops the timer for the key, if one is armed.
func (r *Registry) Cancel(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.timers[key]; ok {
		st.timer.Stop()
		st.cancel()
		delete(r.timers, key)
		r.log.Debug("reminder cancelled", slog.String("key", key))
	}
}

// CancelAll stops every armed timer. The registry stays usable.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, st := range r.timers {
		st.timer.Stop()
		st.cancel()
		delete(r.timers, key)
	}
}

// Len reports the number of armed timers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Close cancels everything and rejects further scheduling.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for key, st := range r.timers {
		st.timer.Stop()
		st.cancel()
		delete(r.timers, key)
	}
}

// remove drops the entry for key if it still points at st. A fired timer must
// not remove a timer that replaced it concurrently.
func (r *Registry) remove(key string, st *standingTimer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.timers[key]; ok && current == st {
		delete(r.timers, key)
	}
}
