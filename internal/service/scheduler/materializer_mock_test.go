package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/ovolkov/fiscus-backend/internal/service/materialize"
)

var _ materializer = &materializerMock{}

type materializerMock struct {
	ProcessDueFunc func(ctx context.Context, asOf time.Time) (materialize.Result, error)

	calls struct {
		ProcessDue []struct {
			Ctx  context.Context
			AsOf time.Time
		}
	}
	lockProcessDue sync.RWMutex
}

func (mock *materializerMock) ProcessDue(ctx context.Context, asOf time.Time) (materialize.Result, error) {
	if mock.ProcessDueFunc == nil {
		panic("materializerMock.ProcessDueFunc: method is nil but materializer.ProcessDue was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		AsOf time.Time
	}{Ctx: ctx, AsOf: asOf}
	mock.lockProcessDue.Lock()
	mock.calls.ProcessDue = append(mock.calls.ProcessDue, callInfo)
	mock.lockProcessDue.Unlock()
	return mock.ProcessDueFunc(ctx, asOf)
}

func (mock *materializerMock) ProcessDueCalls() []struct {
	Ctx  context.Context
	AsOf time.Time
} {
	var calls []struct {
		Ctx  context.Context
		AsOf time.Time
	}
	mock.lockProcessDue.RLock()
	calls = mock.calls.ProcessDue
	mock.lockProcessDue.RUnlock()
	return calls
}
