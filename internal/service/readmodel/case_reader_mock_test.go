package readmodel

import (
	"context"
	"sync"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

var _ caseReader = &caseReaderMock{}

type caseReaderMock struct {
	GetByIDFunc func(ctx context.Context, caseID string) (*domain.Case, error)

	calls struct {
		GetByID []struct {
			Ctx    context.Context
			CaseID string
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *caseReaderMock) GetByID(ctx context.Context, caseID string) (*domain.Case, error) {
	if mock.GetByIDFunc == nil {
		panic("caseReaderMock.GetByIDFunc: method is nil but caseReader.GetByID was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CaseID string
	}{Ctx: ctx, CaseID: caseID}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, caseID)
}

func (mock *caseReaderMock) GetByIDCalls() []struct {
	Ctx    context.Context
	CaseID string
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}
