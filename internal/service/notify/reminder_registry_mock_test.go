package notify

import (
	"context"
	"sync"
	"time"
)

var _ reminderRegistry = &reminderRegistryMock{}

type reminderRegistryMock struct {
	ScheduleFunc  func(key string, at time.Time, fn func(ctx context.Context))
	CancelAllFunc func()

	calls struct {
		Schedule []struct {
			Key string
			At  time.Time
			Fn  func(ctx context.Context)
		}
		CancelAll []struct{}
	}
	lockSchedule  sync.RWMutex
	lockCancelAll sync.RWMutex
}

func (mock *reminderRegistryMock) Schedule(key string, at time.Time, fn func(ctx context.Context)) {
	if mock.ScheduleFunc == nil {
		panic("reminderRegistryMock.ScheduleFunc: method is nil but reminderRegistry.Schedule was just called")
	}
	callInfo := struct {
		Key string
		At  time.Time
		Fn  func(ctx context.Context)
	}{Key: key, At: at, Fn: fn}
	mock.lockSchedule.Lock()
	mock.calls.Schedule = append(mock.calls.Schedule, callInfo)
	mock.lockSchedule.Unlock()
	mock.ScheduleFunc(key, at, fn)
}

func (mock *reminderRegistryMock) ScheduleCalls() []struct {
	Key string
	At  time.Time
	Fn  func(ctx context.Context)
} {
	mock.lockSchedule.RLock()
	calls := mock.calls.Schedule
	mock.lockSchedule.RUnlock()
	return calls
}

func (mock *reminderRegistryMock) CancelAll() {
	if mock.CancelAllFunc == nil {
		panic("reminderRegistryMock.CancelAllFunc: method is nil but reminderRegistry.CancelAll was just called")
	}
	mock.lockCancelAll.Lock()
	mock.calls.CancelAll = append(mock.calls.CancelAll, struct{}{})
	mock.lockCancelAll.Unlock()
	mock.CancelAllFunc()
}

func (mock *reminderRegistryMock) CancelAllCalls() []struct{} {
	mock.lockCancelAll.RLock()
	calls := mock.calls.CancelAll
	mock.lockCancelAll.RUnlock()
	return calls
}
