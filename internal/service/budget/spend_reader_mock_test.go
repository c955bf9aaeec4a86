package budget

import (
	"context"
	"sync"
	"time"
)

var _ spendReader = &spendReaderMock{}

type spendReaderMock struct {
	SpentInPeriodFunc func(ctx context.Context, category string, from, to time.Time) (float64, error)

	calls struct {
		SpentInPeriod []struct {
			Ctx      context.Context
			Category string
			From     time.Time
			To       time.Time
		}
	}
	lockSpentInPeriod sync.RWMutex
}

func (mock *spendReaderMock) SpentInPeriod(ctx context.Context, category string, from, to time.Time) (float64, error) {
	if mock.SpentInPeriodFunc == nil {
		panic("spendReaderMock.SpentInPeriodFunc: method is nil but spendReader.SpentInPeriod was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Category string
		From     time.Time
		To       time.Time
	}{Ctx: ctx, Category: category, From: from, To: to}
	mock.lockSpentInPeriod.Lock()
	mock.calls.SpentInPeriod = append(mock.calls.SpentInPeriod, callInfo)
	mock.lockSpentInPeriod.Unlock()
	return mock.SpentInPeriodFunc(ctx, category, from, to)
}

func (mock *spendReaderMock) SpentInPeriodCalls() []struct {
	Ctx      context.Context
	Category string
	From     time.Time
	To       time.Time
} {
	mock.lockSpentInPeriod.RLock()
	calls := mock.calls.SpentInPeriod
	mock.lockSpentInPeriod.RUnlock()
	return calls
}
