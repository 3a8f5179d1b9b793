package readmodel

import (
	"context"
	"sync"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

var _ previewReader = &previewReaderMock{}

type previewReaderMock struct {
	GetBySlideIDFunc func(ctx context.Context, slideID string) (*domain.PreviewAsset, error)

	calls struct {
		GetBySlideID []struct {
			Ctx     context.Context
			SlideID string
		}
	}
	lockGetBySlideID sync.RWMutex
}

func (mock *previewReaderMock) GetBySlideID(ctx context.Context, slideID string) (*domain.PreviewAsset, error) {
	if mock.GetBySlideIDFunc == nil {
		panic("previewReaderMock.GetBySlideIDFunc: method is nil but previewReader.GetBySlideID was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SlideID string
	}{Ctx: ctx, SlideID: slideID}
	mock.lockGetBySlideID.Lock()
	mock.calls.GetBySlideID = append(mock.calls.GetBySlideID, callInfo)
	mock.lockGetBySlideID.Unlock()
	return mock.GetBySlideIDFunc(ctx, slideID)
}

func (mock *previewReaderMock) GetBySlideIDCalls() []struct {
	Ctx     context.Context
	SlideID string
} {
	mock.lockGetBySlideID.RLock()
	calls := mock.calls.GetBySlideID
	mock.lockGetBySlideID.RUnlock()
	return calls
}
