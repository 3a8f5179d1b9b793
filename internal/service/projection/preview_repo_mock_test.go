package projection

import (
	"context"
	"sync"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

var _ previewRepo = &previewRepoMock{}

type previewRepoMock struct {
	UpsertFunc func(ctx context.Context, a domain.PreviewAsset) error

	calls struct {
		Upsert []struct {
			Ctx context.Context
			A   domain.PreviewAsset
		}
	}
	lockUpsert sync.RWMutex
}

func (mock *previewRepoMock) Upsert(ctx context.Context, a domain.PreviewAsset) error {
	if mock.UpsertFunc == nil {
		panic("previewRepoMock.UpsertFunc: method is nil but previewRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		A   domain.PreviewAsset
	}{Ctx: ctx, A: a}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, a)
}

func (mock *previewRepoMock) UpsertCalls() []struct {
	Ctx context.Context
	A   domain.PreviewAsset
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
