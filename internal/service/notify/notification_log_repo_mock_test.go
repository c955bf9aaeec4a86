package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

var _ notificationLogRepo = &notificationLogRepoMock{}

type notificationLogRepoMock struct {
	ExistsSinceFunc func(ctx context.Context, nType domain.NotificationType, relatedID *uuid.UUID, since time.Time) (bool, error)
	InsertFunc      func(ctx context.Context, entry *domain.NotificationLogEntry) error

	calls struct {
		ExistsSince []struct {
			Ctx       context.Context
			NType     domain.NotificationType
			RelatedID *uuid.UUID
			Since     time.Time
		}
		Insert []struct {
			Ctx   context.Context
			Entry *domain.NotificationLogEntry
		}
	}
	lockExistsSince sync.RWMutex
	lockInsert      sync.RWMutex
}

func (mock *notificationLogRepoMock) ExistsSince(ctx context.Context, nType domain.NotificationType, relatedID *uuid.UUID, since time.Time) (bool, error) {
	if mock.ExistsSinceFunc == nil {
		panic("notificationLogRepoMock.ExistsSinceFunc: method is nil but notificationLogRepo.ExistsSince was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		NType     domain.NotificationType
		RelatedID *uuid.UUID
		Since     time.Time
	}{Ctx: ctx, NType: nType, RelatedID: relatedID, Since: since}
	mock.lockExistsSince.Lock()
	mock.calls.ExistsSince = append(mock.calls.ExistsSince, callInfo)
	mock.lockExistsSince.Unlock()
	return mock.ExistsSinceFunc(ctx, nType, relatedID, since)
}

func (mock *notificationLogRepoMock) ExistsSinceCalls() []struct {
	Ctx       context.Context
	NType     domain.NotificationType
	RelatedID *uuid.UUID
	Since     time.Time
} {
	mock.lockExistsSince.RLock()
	calls := mock.calls.ExistsSince
	mock.lockExistsSince.RUnlock()
	return calls
}

func (mock *notificationLogRepoMock) Insert(ctx context.Context, entry *domain.NotificationLogEntry) error {
	if mock.InsertFunc == nil {
		panic("notificationLogRepoMock.InsertFunc: method is nil but notificationLogRepo.Insert was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Entry *domain.NotificationLogEntry
	}{Ctx: ctx, Entry: entry}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, entry)
}

func (mock *notificationLogRepoMock) InsertCalls() []struct {
	Ctx   context.Context
	Entry *domain.NotificationLogEntry
} {
	mock.lockInsert.RLock()
	calls := mock.calls.Insert
	mock.lockInsert.RUnlock()
	return calls
}
