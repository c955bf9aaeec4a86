package notify

import (
	"context"
	"sync"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

var _ settingsReader = &settingsReaderMock{}

type settingsReaderMock struct {
	GetFunc func(ctx context.Context) (*domain.NotificationPreferences, error)

	calls struct {
		Get []struct {
			Ctx context.Context
		}
	}
	lockGet sync.RWMutex
}

func (mock *settingsReaderMock) Get(ctx context.Context) (*domain.NotificationPreferences, error) {
	if mock.GetFunc == nil {
		panic("settingsReaderMock.GetFunc: method is nil but settingsReader.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx)
}

func (mock *settingsReaderMock) GetCalls() []struct {
	Ctx context.Context
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}
