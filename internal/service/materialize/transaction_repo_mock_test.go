package materialize

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ovolkov/fiscus-backend/internal/domain"
)

var _ transactionRepo = &transactionRepoMock{}

type transactionRepoMock struct {
	CreateFunc                 func(ctx context.Context, tx *domain.Transaction) error
	LatestOccurrenceByRuleFunc func(ctx context.Context, ruleID uuid.UUID) (*time.Time, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			Tx  *domain.Transaction
		}
		LatestOccurrenceByRule []struct {
			Ctx    context.Context
			RuleID uuid.UUID
		}
	}
	lockCreate                 sync.RWMutex
	lockLatestOccurrenceByRule sync.RWMutex
}

func (mock *transactionRepoMock) Create(ctx context.Context, tx *domain.Transaction) error {
	if mock.CreateFunc == nil {
		panic("transactionRepoMock.CreateFunc: method is nil but transactionRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Tx  *domain.Transaction
	}{Ctx: ctx, Tx: tx}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, tx)
}

func (mock *transactionRepoMock) CreateCalls() []struct {
	Ctx context.Context
	Tx  *domain.Transaction
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *transactionRepoMock) LatestOccurrenceByRule(ctx context.Context, ruleID uuid.UUID) (*time.Time, error) {
	if mock.LatestOccurrenceByRuleFunc == nil {
		panic("transactionRepoMock.LatestOccurrenceByRuleFunc: method is nil but transactionRepo.LatestOccurrenceByRule was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		RuleID uuid.UUID
	}{Ctx: ctx, RuleID: ruleID}
	mock.lockLatestOccurrenceByRule.Lock()
	mock.calls.LatestOccurrenceByRule = append(mock.calls.LatestOccurrenceByRule, callInfo)
	mock.lockLatestOccurrenceByRule.Unlock()
	return mock.LatestOccurrenceByRuleFunc(ctx, ruleID)
}

func (mock *transactionRepoMock) LatestOccurrenceByRuleCalls() []struct {
	Ctx    context.Context
	RuleID uuid.UUID
} {
	mock.lockLatestOccurrenceByRule.RLock()
	calls := mock.calls.LatestOccurrenceByRule
	mock.lockLatestOccurrenceByRule.RUnlock()
	return calls
}
