package notify

import (
	"context"
	"sync"
	"time"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

var _ dueRuleReader = &dueRuleReaderMock{}

type dueRuleReaderMock struct {
	FindDueBetweenFunc func(ctx context.Context, from, to time.Time) ([]*domain.RecurringRule, error)

	calls struct {
		FindDueBetween []struct {
			Ctx  context.Context
			From time.Time
			To   time.Time
		}
	}
	lockFindDueBetween sync.RWMutex
}

func (mock *dueRuleReaderMock) FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.RecurringRule, error) {
	if mock.FindDueBetweenFunc == nil {
		panic("dueRuleReaderMock.FindDueBetweenFunc: method is nil but dueRuleReader.FindDueBetween was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		From time.Time
		To   time.Time
	}{Ctx: ctx, From: from, To: to}
	mock.lockFindDueBetween.Lock()
	mock.calls.FindDueBetween = append(mock.calls.FindDueBetween, callInfo)
	mock.lockFindDueBetween.Unlock()
	return mock.FindDueBetweenFunc(ctx, from, to)
}

func (mock *dueRuleReaderMock) FindDueBetweenCalls() []struct {
	Ctx  context.Context
	From time.Time
	To   time.Time
} {
	mock.lockFindDueBetween.RLock()
	calls := mock.calls.FindDueBetween
	mock.lockFindDueBetween.RUnlock()
	return calls
}
