package rebuild

import (
	"context"
	"sync"
)

var _ truncater = &truncaterMock{}

type truncaterMock struct {
	DeleteAllFunc func(ctx context.Context) (int64, error)

	calls struct {
		DeleteAll []struct {
			Ctx context.Context
		}
	}
	lockDeleteAll sync.RWMutex
}

func (mock *truncaterMock) DeleteAll(ctx context.Context) (int64, error) {
	if mock.DeleteAllFunc == nil {
		panic("truncaterMock.DeleteAllFunc: method is nil but truncater.DeleteAll was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockDeleteAll.Lock()
	mock.calls.DeleteAll = append(mock.calls.DeleteAll, callInfo)
	mock.lockDeleteAll.Unlock()
	return mock.DeleteAllFunc(ctx)
}

func (mock *truncaterMock) DeleteAllCalls() []struct {
	Ctx context.Context
} {
	mock.lockDeleteAll.RLock()
	calls := mock.calls.DeleteAll
	mock.lockDeleteAll.RUnlock()
	return calls
}
