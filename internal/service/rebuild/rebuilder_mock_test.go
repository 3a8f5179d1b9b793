package rebuild

import (
	"context"
	"sync"
)

var _ rebuilder = &rebuilderMock{}

type rebuilderMock struct {
	RebuildFunc func(ctx context.Context) (*Report, error)
	RunningFunc func() bool

	calls struct {
		Rebuild []struct {
			Ctx context.Context
		}
		Running []struct {
		}
	}
	lockRebuild sync.RWMutex
	lockRunning sync.RWMutex
}

func (mock *rebuilderMock) Rebuild(ctx context.Context) (*Report, error) {
	if mock.RebuildFunc == nil {
		panic("rebuilderMock.RebuildFunc: method is nil but rebuilder.Rebuild was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockRebuild.Lock()
	mock.calls.Rebuild = append(mock.calls.Rebuild, callInfo)
	mock.lockRebuild.Unlock()
	return mock.RebuildFunc(ctx)
}

func (mock *rebuilderMock) RebuildCalls() []struct {
	Ctx context.Context
} {
	mock.lockRebuild.RLock()
	calls := mock.calls.Rebuild
	mock.lockRebuild.RUnlock()
	return calls
}

func (mock *rebuilderMock) Running() bool {
	if mock.RunningFunc == nil {
		panic("rebuilderMock.RunningFunc: method is nil but rebuilder.Running was just called")
	}
	callInfo := struct {
	}{}
	mock.lockRunning.Lock()
	mock.calls.Running = append(mock.calls.Running, callInfo)
	mock.lockRunning.Unlock()
	return mock.RunningFunc()
}

func (mock *rebuilderMock) RunningCalls() []struct {

} {
	mock.lockRunning.RLock()
	calls := mock.calls.Running
	mock.lockRunning.RUnlock()
	return calls
}
