package budget

import (
	"context"
	"sync"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

var _ budgetRepo = &budgetRepoMock{}

type budgetRepoMock struct {
	FindActiveFunc func(ctx context.Context) ([]*domain.Budget, error)

	calls struct {
		FindActive []struct {
			Ctx context.Context
		}
	}
	lockFindActive sync.RWMutex
}

func (mock *budgetRepoMock) FindActive(ctx context.Context) ([]*domain.Budget, error) {
	if mock.FindActiveFunc == nil {
		panic("budgetRepoMock.FindActiveFunc: method is nil but budgetRepo.FindActive was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockFindActive.Lock()
	mock.calls.FindActive = append(mock.calls.FindActive, callInfo)
	mock.lockFindActive.Unlock()
	return mock.FindActiveFunc(ctx)
}

func (mock *budgetRepoMock) FindActiveCalls() []struct {
	Ctx context.Context
} {
	mock.lockFindActive.RLock()
	calls := mock.calls.FindActive
	mock.lockFindActive.RUnlock()
	return calls
}
