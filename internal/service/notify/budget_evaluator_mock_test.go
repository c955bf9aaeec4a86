package notify

import (
	"context"
	"sync"
	"time"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

var _ budgetEvaluator = &budgetEvaluatorMock{}

type budgetEvaluatorMock struct {
	EvaluateFunc func(ctx context.Context, now time.Time) ([]domain.BudgetAlert, error)

	calls struct {
		Evaluate []struct {
			Ctx context.Context
			Now time.Time
		}
	}
	lockEvaluate sync.RWMutex
}

func (mock *budgetEvaluatorMock) Evaluate(ctx context.Context, now time.Time) ([]domain.BudgetAlert, error) {
	if mock.EvaluateFunc == nil {
		panic("budgetEvaluatorMock.EvaluateFunc: method is nil but budgetEvaluator.Evaluate was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Now time.Time
	}{Ctx: ctx, Now: now}
	mock.lockEvaluate.Lock()
	mock.calls.Evaluate = append(mock.calls.Evaluate, callInfo)
	mock.lockEvaluate.Unlock()
	return mock.EvaluateFunc(ctx, now)
}

func (mock *budgetEvaluatorMock) EvaluateCalls() []struct {
	Ctx context.Context
	Now time.Time
} {
	mock.lockEvaluate.RLock()
	calls := mock.calls.Evaluate
	mock.lockEvaluate.RUnlock()
	return calls
}
