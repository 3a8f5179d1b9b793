package ingest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

var _ eventLog = &eventLogMock{}

type eventLogMock struct {
	ExistingIDsFunc func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)
	InsertBatchFunc func(ctx context.Context, events []domain.Event) ([]uuid.UUID, error)

	calls struct {
		ExistingIDs []struct {
			Ctx context.Context
			Ids []uuid.UUID
		}
		InsertBatch []struct {
			Ctx    context.Context
			Events []domain.Event
		}
	}
	lockExistingIDs sync.RWMutex
	lockInsertBatch sync.RWMutex
}

func (mock *eventLogMock) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	if mock.ExistingIDsFunc == nil {
		panic("eventLogMock.ExistingIDsFunc: method is nil but eventLog.ExistingIDs was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []uuid.UUID
	}{Ctx: ctx, Ids: ids}
	mock.lockExistingIDs.Lock()
	mock.calls.ExistingIDs = append(mock.calls.ExistingIDs, callInfo)
	mock.lockExistingIDs.Unlock()
	return mock.ExistingIDsFunc(ctx, ids)
}

func (mock *eventLogMock) ExistingIDsCalls() []struct {
	Ctx context.Context
	Ids []uuid.UUID
} {
	mock.lockExistingIDs.RLock()
	calls := mock.calls.ExistingIDs
	mock.lockExistingIDs.RUnlock()
	return calls
}

func (mock *eventLogMock) InsertBatch(ctx context.Context, events []domain.Event) ([]uuid.UUID, error) {
	if mock.InsertBatchFunc == nil {
		panic("eventLogMock.InsertBatchFunc: method is nil but eventLog.InsertBatch was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Events []domain.Event
	}{Ctx: ctx, Events: events}
	mock.lockInsertBatch.Lock()
	mock.calls.InsertBatch = append(mock.calls.InsertBatch, callInfo)
	mock.lockInsertBatch.Unlock()
	return mock.InsertBatchFunc(ctx, events)
}

func (mock *eventLogMock) InsertBatchCalls() []struct {
	Ctx    context.Context
	Events []domain.Event
} {
	mock.lockInsertBatch.RLock()
	calls := mock.calls.InsertBatch
	mock.lockInsertBatch.RUnlock()
	return calls
}
