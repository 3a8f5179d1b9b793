package projection

import (
	"context"
	"sync"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

var _ caseRepo = &caseRepoMock{}

type caseRepoMock struct {
	UpsertFunc func(ctx context.Context, c domain.Case) error

	calls struct {
		Upsert []struct {
			Ctx context.Context
			C   domain.Case
		}
	}
	lockUpsert sync.RWMutex
}

func (mock *caseRepoMock) Upsert(ctx context.Context, c domain.Case) error {
	if mock.UpsertFunc == nil {
		panic("caseRepoMock.UpsertFunc: method is nil but caseRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		C   domain.Case
	}{Ctx: ctx, C: c}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, c)
}

func (mock *caseRepoMock) UpsertCalls() []struct {
	Ctx context.Context
	C   domain.Case
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
