package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/slide-relay/internal/domain"
	"github.com/heartmarshall/slide-relay/internal/service/readmodel"
)

var _ readService = &readServiceMock{}

type readServiceMock struct {
	GetCaseFunc             func(ctx context.Context, caseID string) (*domain.Case, error)
	GetEventFunc            func(ctx context.Context, eventID string) (*domain.StoredEvent, error)
	GetPreviewFunc          func(ctx context.Context, slideID string) (*readmodel.PreviewView, error)
	GetSlideFunc            func(ctx context.Context, slideID string) (*domain.Slide, error)
	ListAggregateEventsFunc func(ctx context.Context, aggType string, aggID string, limit int) ([]domain.StoredEvent, error)
	ListSlidesFunc          func(ctx context.Context, caseID string) ([]domain.Slide, error)

	calls struct {
		GetCase []struct {
			Ctx    context.Context
			CaseID string
		}
		GetEvent []struct {
			Ctx     context.Context
			EventID string
		}
		GetPreview []struct {
			Ctx     context.Context
			SlideID string
		}
		GetSlide []struct {
			Ctx     context.Context
			SlideID string
		}
		ListAggregateEvents []struct {
			Ctx     context.Context
			AggType string
			AggID   string
			Limit   int
		}
		ListSlides []struct {
			Ctx    context.Context
			CaseID string
		}
	}
	lockGetCase             sync.RWMutex
	lockGetEvent            sync.RWMutex
	lockGetPreview          sync.RWMutex
	lockGetSlide            sync.RWMutex
	lockListAggregateEvents sync.RWMutex
	lockListSlides          sync.RWMutex
}

func (mock *readServiceMock) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	if mock.GetCaseFunc == nil {
		panic("readServiceMock.GetCaseFunc: method is nil but readService.GetCase was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CaseID string
	}{Ctx: ctx, CaseID: caseID}
	mock.lockGetCase.Lock()
	mock.calls.GetCase = append(mock.calls.GetCase, callInfo)
	mock.lockGetCase.Unlock()
	return mock.GetCaseFunc(ctx, caseID)
}

func (mock *readServiceMock) GetCaseCalls() []struct {
	Ctx    context.Context
	CaseID string
} {
	mock.lockGetCase.RLock()
	calls := mock.calls.GetCase
	mock.lockGetCase.RUnlock()
	return calls
}

func (mock *readServiceMock) GetEvent(ctx context.Context, eventID string) (*domain.StoredEvent, error) {
	if mock.GetEventFunc == nil {
		panic("readServiceMock.GetEventFunc: method is nil but readService.GetEvent was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		EventID string
	}{Ctx: ctx, EventID: eventID}
	mock.lockGetEvent.Lock()
	mock.calls.GetEvent = append(mock.calls.GetEvent, callInfo)
	mock.lockGetEvent.Unlock()
	return mock.GetEventFunc(ctx, eventID)
}

func (mock *readServiceMock) GetEventCalls() []struct {
	Ctx     context.Context
	EventID string
} {
	mock.lockGetEvent.RLock()
	calls := mock.calls.GetEvent
	mock.lockGetEvent.RUnlock()
	return calls
}

func (mock *readServiceMock) GetPreview(ctx context.Context, slideID string) (*readmodel.PreviewView, error) {
	if mock.GetPreviewFunc == nil {
		panic("readServiceMock.GetPreviewFunc: method is nil but readService.GetPreview was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SlideID string
	}{Ctx: ctx, SlideID: slideID}
	mock.lockGetPreview.Lock()
	mock.calls.GetPreview = append(mock.calls.GetPreview, callInfo)
	mock.lockGetPreview.Unlock()
	return mock.GetPreviewFunc(ctx, slideID)
}

func (mock *readServiceMock) GetPreviewCalls() []struct {
	Ctx     context.Context
	SlideID string
} {
	mock.lockGetPreview.RLock()
	calls := mock.calls.GetPreview
	mock.lockGetPreview.RUnlock()
	return calls
}

func (mock *readServiceMock) GetSlide(ctx context.Context, slideID string) (*domain.Slide, error) {
	if mock.GetSlideFunc == nil {
		panic("readServiceMock.GetSlideFunc: method is nil but readService.GetSlide was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		SlideID string
	}{Ctx: ctx, SlideID: slideID}
	mock.lockGetSlide.Lock()
	mock.calls.GetSlide = append(mock.calls.GetSlide, callInfo)
	mock.lockGetSlide.Unlock()
	return mock.GetSlideFunc(ctx, slideID)
}

func (mock *readServiceMock) GetSlideCalls() []struct {
	Ctx     context.Context
	SlideID string
} {
	mock.lockGetSlide.RLock()
	calls := mock.calls.GetSlide
	mock.lockGetSlide.RUnlock()
	return calls
}

func (mock *readServiceMock) ListAggregateEvents(ctx context.Context, aggType string, aggID string, limit int) ([]domain.StoredEvent, error) {
	if mock.ListAggregateEventsFunc == nil {
		panic("readServiceMock.ListAggregateEventsFunc: method is nil but readService.ListAggregateEvents was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		AggType string
		AggID   string
		Limit   int
	}{Ctx: ctx, AggType: aggType, AggID: aggID, Limit: limit}
	mock.lockListAggregateEvents.Lock()
	mock.calls.ListAggregateEvents = append(mock.calls.ListAggregateEvents, callInfo)
	mock.lockListAggregateEvents.Unlock()
	return mock.ListAggregateEventsFunc(ctx, aggType, aggID, limit)
}

func (mock *readServiceMock) ListAggregateEventsCalls() []struct {
	Ctx     context.Context
	AggType string
	AggID   string
	Limit   int
} {
	mock.lockListAggregateEvents.RLock()
	calls := mock.calls.ListAggregateEvents
	mock.lockListAggregateEvents.RUnlock()
	return calls
}

func (mock *readServiceMock) ListSlides(ctx context.Context, caseID string) ([]domain.Slide, error) {
	if mock.ListSlidesFunc == nil {
		panic("readServiceMock.ListSlidesFunc: method is nil but readService.ListSlides was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CaseID string
	}{Ctx: ctx, CaseID: caseID}
	mock.lockListSlides.Lock()
	mock.calls.ListSlides = append(mock.calls.ListSlides, callInfo)
	mock.lockListSlides.Unlock()
	return mock.ListSlidesFunc(ctx, caseID)
}

func (mock *readServiceMock) ListSlidesCalls() []struct {
	Ctx    context.Context
	CaseID string
} {
	mock.lockListSlides.RLock()
	calls := mock.calls.ListSlides
	mock.lockListSlides.RUnlock()
	return calls
}
