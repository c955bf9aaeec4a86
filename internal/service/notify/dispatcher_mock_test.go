package notify

import (
	"context"
	"sync"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

var _ dispatcher = &dispatcherMock{}

type dispatcherMock struct {
	SendFunc func(ctx context.Context, title, body string, priority domain.NotificationPriority) error

	calls struct {
		Send []struct {
			Ctx      context.Context
			Title    string
			Body     string
			Priority domain.NotificationPriority
		}
	}
	lockSend sync.RWMutex
}

func (mock *dispatcherMock) Send(ctx context.Context, title, body string, priority domain.NotificationPriority) error {
	if mock.SendFunc == nil {
		panic("dispatcherMock.SendFunc: method is nil but dispatcher.Send was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Title    string
		Body     string
		Priority domain.NotificationPriority
	}{Ctx: ctx, Title: title, Body: body, Priority: priority}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, title, body, priority)
}

func (mock *dispatcherMock) SendCalls() []struct {
	Ctx      context.Context
	Title    string
	Body     string
	Priority domain.NotificationPriority
} {
	mock.lockSend.RLock()
	calls := mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
