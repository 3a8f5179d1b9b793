package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/slide-relay/internal/service/ingest"
)

var _ ingestService = &ingestServiceMock{}

type ingestServiceMock struct {
	IngestFunc func(ctx context.Context, in ingest.IngestInput) (*ingest.IngestResult, error)

	calls struct {
		Ingest []struct {
			Ctx context.Context
			In  ingest.IngestInput
		}
	}
	lockIngest sync.RWMutex
}

func (mock *ingestServiceMock) Ingest(ctx context.Context, in ingest.IngestInput) (*ingest.IngestResult, error) {
	if mock.IngestFunc == nil {
		panic("ingestServiceMock.IngestFunc: method is nil but ingestService.Ingest was just called")
	}
	callInfo := struct {
		Ctx context.Context
		In  ingest.IngestInput
	}{Ctx: ctx, In: in}
	mock.lockIngest.Lock()
	mock.calls.Ingest = append(mock.calls.Ingest, callInfo)
	mock.lockIngest.Unlock()
	return mock.IngestFunc(ctx, in)
}

func (mock *ingestServiceMock) IngestCalls() []struct {
	Ctx context.Context
	In  ingest.IngestInput
} {
	mock.lockIngest.RLock()
	calls := mock.calls.Ingest
	mock.lockIngest.RUnlock()
	return calls
}
