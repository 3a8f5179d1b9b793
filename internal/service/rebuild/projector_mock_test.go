package rebuild

import (
	"context"
	"sync"

	"github.com/heartmarshall/slide-relay/internal/domain"
	"github.com/heartmarshall/slide-relay/internal/service/projection"
)

var _ projector = &projectorMock{}

type projectorMock struct {
	ApplyFunc func(ctx context.Context, e domain.Event) projection.Result

	calls struct {
		Apply []struct {
			Ctx context.Context
			E   domain.Event
		}
	}
	lockApply sync.RWMutex
}

func (mock *projectorMock) Apply(ctx context.Context, e domain.Event) projection.Result {
	if mock.ApplyFunc == nil {
		panic("projectorMock.ApplyFunc: method is nil but projector.Apply was just called")
	}
	callInfo := struct {
		Ctx context.Context
		E   domain.Event
	}{Ctx: ctx, E: e}
	mock.lockApply.Lock()
	mock.calls.Apply = append(mock.calls.Apply, callInfo)
	mock.lockApply.Unlock()
	return mock.ApplyFunc(ctx, e)
}

func (mock *projectorMock) ApplyCalls() []struct {
	Ctx context.Context
	E   domain.Event
} {
	mock.lockApply.RLock()
	calls := mock.calls.Apply
	mock.lockApply.RUnlock()
	return calls
}
