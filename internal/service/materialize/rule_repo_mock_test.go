package materialize

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

var _ ruleRepo = &ruleRepoMock{}

type ruleRepoMock struct {
	FindActiveDueFunc func(ctx context.Context, asOf time.Time) ([]*domain.RecurringRule, error)
	AdvanceCursorFunc func(ctx context.Context, id uuid.UUID, nextDueDate time.Time) error

	calls struct {
		FindActiveDue []struct {
			Ctx  context.Context
			AsOf time.Time
		}
		AdvanceCursor []struct {
			Ctx         context.Context
			ID          uuid.UUID
			NextDueDate time.Time
		}
	}
	lockFindActiveDue sync.RWMutex
	lockAdvanceCursor sync.RWMutex
}

func (mock *ruleRepoMock) FindActiveDue(ctx context.Context, asOf time.Time) ([]*domain.RecurringRule, error) {
	if mock.FindActiveDueFunc == nil {
		panic("ruleRepoMock.FindActiveDueFunc: method is nil but ruleRepo.FindActiveDue was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		AsOf time.Time
	}{Ctx: ctx, AsOf: asOf}
	mock.lockFindActiveDue.Lock()
	mock.calls.FindActiveDue = append(mock.calls.FindActiveDue, callInfo)
	mock.lockFindActiveDue.Unlock()
	return mock.FindActiveDueFunc(ctx, asOf)
}

func (mock *ruleRepoMock) FindActiveDueCalls() []struct {
	Ctx  context.Context
	AsOf time.Time
} {
	mock.lockFindActiveDue.RLock()
	calls := mock.calls.FindActiveDue
	mock.lockFindActiveDue.RUnlock()
	return calls
}

func (mock *ruleRepoMock) AdvanceCursor(ctx context.Context, id uuid.UUID, nextDueDate time.Time) error {
	if mock.AdvanceCursorFunc == nil {
		panic("ruleRepoMock.AdvanceCursorFunc: method is nil but ruleRepo.AdvanceCursor was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		ID          uuid.UUID
		NextDueDate time.Time
	}{Ctx: ctx, ID: id, NextDueDate: nextDueDate}
	mock.lockAdvanceCursor.Lock()
	mock.calls.AdvanceCursor = append(mock.calls.AdvanceCursor, callInfo)
	mock.lockAdvanceCursor.Unlock()
	return mock.AdvanceCursorFunc(ctx, id, nextDueDate)
}

func (mock *ruleRepoMock) AdvanceCursorCalls() []struct {
	Ctx         context.Context
	ID          uuid.UUID
	NextDueDate time.Time
} {
	mock.lockAdvanceCursor.RLock()
	calls := mock.calls.AdvanceCursor
	mock.lockAdvanceCursor.RUnlock()
	return calls
}
