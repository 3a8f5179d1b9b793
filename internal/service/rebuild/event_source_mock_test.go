package rebuild

import (
	"context"
	"sync"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

var _ eventSource = &eventSourceMock{}

type eventSourceMock struct {
	ListAfterFunc func(ctx context.Context, afterSeq int64, limit int) ([]domain.StoredEvent, error)

	calls struct {
		ListAfter []struct {
			Ctx      context.Context
			AfterSeq int64
			Limit    int
		}
	}
	lockListAfter sync.RWMutex
}

func (mock *eventSourceMock) ListAfter(ctx context.Context, afterSeq int64, limit int) ([]domain.StoredEvent, error) {
	if mock.ListAfterFunc == nil {
		panic("eventSourceMock.ListAfterFunc: method is nil but eventSource.ListAfter was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		AfterSeq int64
		Limit    int
	}{Ctx: ctx, AfterSeq: afterSeq, Limit: limit}
	mock.lockListAfter.Lock()
	mock.calls.ListAfter = append(mock.calls.ListAfter, callInfo)
	mock.lockListAfter.Unlock()
	return mock.ListAfterFunc(ctx, afterSeq, limit)
}

func (mock *eventSourceMock) ListAfterCalls() []struct {
	Ctx      context.Context
	AfterSeq int64
	Limit    int
} {
	mock.lockListAfter.RLock()
	calls := mock.calls.ListAfter
	mock.lockListAfter.RUnlock()
	return calls
}
