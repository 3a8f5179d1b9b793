package readmodel

import (
	"context"
	"sync"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

var _ slideReader = &slideReaderMock{}

type slideReaderMock struct {
	GetByIDFunc    func(ctx context.Context, slideID string) (*domain.Slide, error)
	ListByCaseFunc func(ctx context.Context, caseID string) ([]domain.Slide, error)

	calls struct {
		GetByID []struct {
			Ctx     context.Context
			SlideID string
		}
		ListByCase []struct {
			Ctx    context.Context
			CaseID string
		}
	}
	lockGetByID    sync.RWMutex
	lockListByCase sync.RWMutex
}

func (mock *slideReaderMock) GetByID(ctx context.Context, slideID string) (*domain.Slide, error) {
	if mock.GetByIDFunc == nil {
		panic("slideReaderMock.GetByIDFunc: method is nil but slideReader.GetByID was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SlideID string
	}{Ctx: ctx, SlideID: slideID}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, slideID)
}

func (mock *slideReaderMock) GetByIDCalls() []struct {
	Ctx     context.Context
	SlideID string
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *slideReaderMock) ListByCase(ctx context.Context, caseID string) ([]domain.Slide, error) {
	if mock.ListByCaseFunc == nil {
		panic("slideReaderMock.ListByCaseFunc: method is nil but slideReader.ListByCase was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CaseID string
	}{Ctx: ctx, CaseID: caseID}
	mock.lockListByCase.Lock()
	mock.calls.ListByCase = append(mock.calls.ListByCase, callInfo)
	mock.lockListByCase.Unlock()
	return mock.ListByCaseFunc(ctx, caseID)
}

func (mock *slideReaderMock) ListByCaseCalls() []struct {
	Ctx    context.Context
	CaseID string
} {
	mock.lockListByCase.RLock()
	calls := mock.calls.ListByCase
	mock.lockListByCase.RUnlock()
	return calls
}
