package scheduler

import (
	"context"
	"sync"
)

var _ dailyChecker = &dailyCheckerMock{}

type dailyCheckerMock struct {
	RunDailyChecksFunc func(ctx context.Context, taxYear int) error

	calls struct {
		RunDailyChecks []struct {
			Ctx     context.Context
			TaxYear int
		}
	}
	lockRunDailyChecks sync.RWMutex
}

func (mock *dailyCheckerMock) RunDailyChecks(ctx context.Context, taxYear int) error {
	if mock.RunDailyChecksFunc == nil {
		panic("dailyCheckerMock.RunDailyChecksFunc: method is nil but dailyChecker.RunDailyChecks was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		TaxYear int
	}{Ctx: ctx, TaxYear: taxYear}
	mock.lockRunDailyChecks.Lock()
	mock.calls.RunDailyChecks = append(mock.calls.RunDailyChecks, callInfo)
	mock.lockRunDailyChecks.Unlock()
	return mock.RunDailyChecksFunc(ctx, taxYear)
}

func (mock *dailyCheckerMock) RunDailyChecksCalls() []struct {
	Ctx     context.Context
	TaxYear int
} {
	var calls []struct {
		Ctx     context.Context
		TaxYear int
	}
	mock.lockRunDailyChecks.RLock()
	calls = mock.calls.RunDailyChecks
	mock.lockRunDailyChecks.RUnlock()
	return calls
}
