package projection

import (
	"context"
	"sync"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

var _ slideRepo = &slideRepoMock{}

type slideRepoMock struct {
	UpsertFunc             func(ctx context.Context, s domain.Slide) error
	GetByIDFunc            func(ctx context.Context, slideID string) (*domain.Slide, error)
	ListWithoutPreviewFunc func(ctx context.Context, caseID string, limit int) ([]string, error)
	MarkHasPreviewFunc     func(ctx context.Context, slideID string, ref domain.EventRef) error

	calls struct {
		Upsert []struct {
			Ctx context.Context
			S   domain.Slide
		}
		GetByID []struct {
			Ctx     context.Context
			SlideID string
		}
		ListWithoutPreview []struct {
			Ctx    context.Context
			CaseID string
			Limit  int
		}
		MarkHasPreview []struct {
			Ctx     context.Context
			SlideID string
			Ref     domain.EventRef
		}
	}
	lockUpsert             sync.RWMutex
	lockGetByID            sync.RWMutex
	lockListWithoutPreview sync.RWMutex
	lockMarkHasPreview     sync.RWMutex
}

func (mock *slideRepoMock) Upsert(ctx context.Context, s domain.Slide) error {
	if mock.UpsertFunc == nil {
		panic("slideRepoMock.UpsertFunc: method is nil but slideRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		S   domain.Slide
	}{Ctx: ctx, S: s}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, s)
}

func (mock *slideRepoMock) UpsertCalls() []struct {
	Ctx context.Context
	S   domain.Slide
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}

func (mock *slideRepoMock) GetByID(ctx context.Context, slideID string) (*domain.Slide, error) {
	if mock.GetByIDFunc == nil {
		panic("slideRepoMock.GetByIDFunc: method is nil but slideRepo.GetByID was just called")
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

func (mock *slideRepoMock) GetByIDCalls() []struct {
	Ctx     context.Context
	SlideID string
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *slideRepoMock) ListWithoutPreview(ctx context.Context, caseID string, limit int) ([]string, error) {
	if mock.ListWithoutPreviewFunc == nil {
		panic("slideRepoMock.ListWithoutPreviewFunc: method is nil but slideRepo.ListWithoutPreview was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CaseID string
		Limit  int
	}{Ctx: ctx, CaseID: caseID, Limit: limit}
	mock.lockListWithoutPreview.Lock()
	mock.calls.ListWithoutPreview = append(mock.calls.ListWithoutPreview, callInfo)
	mock.lockListWithoutPreview.Unlock()
	return mock.ListWithoutPreviewFunc(ctx, caseID, limit)
}

func (mock *slideRepoMock) ListWithoutPreviewCalls() []struct {
	Ctx    context.Context
	CaseID string
	Limit  int
} {
	mock.lockListWithoutPreview.RLock()
	calls := mock.calls.ListWithoutPreview
	mock.lockListWithoutPreview.RUnlock()
	return calls
}

func (mock *slideRepoMock) MarkHasPreview(ctx context.Context, slideID string, ref domain.EventRef) error {
	if mock.MarkHasPreviewFunc == nil {
		panic("slideRepoMock.MarkHasPreviewFunc: method is nil but slideRepo.MarkHasPreview was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SlideID string
		Ref     domain.EventRef
	}{Ctx: ctx, SlideID: slideID, Ref: ref}
	mock.lockMarkHasPreview.Lock()
	mock.calls.MarkHasPreview = append(mock.calls.MarkHasPreview, callInfo)
	mock.lockMarkHasPreview.Unlock()
	return mock.MarkHasPreviewFunc(ctx, slideID, ref)
}

func (mock *slideRepoMock) MarkHasPreviewCalls() []struct {
	Ctx     context.Context
	SlideID string
	Ref     domain.EventRef
} {
	mock.lockMarkHasPreview.RLock()
	calls := mock.calls.MarkHasPreview
	mock.lockMarkHasPreview.RUnlock()
	return calls
}
