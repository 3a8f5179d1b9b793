package readmodel

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

var _ eventReader = &eventReaderMock{}

type eventReaderMock struct {
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.StoredEvent, error)
	ListByAggregateFunc func(ctx context.Context, aggType domain.AggregateType, aggID string, limit int) ([]domain.StoredEvent, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		ListByAggregate []struct {
			Ctx     context.Context
			AggType domain.AggregateType
			AggID   string
			Limit   int
		}
	}
	lockGetByID         sync.RWMutex
	lockListByAggregate sync.RWMutex
}

func (mock *eventReaderMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredEvent, error) {
	if mock.GetByIDFunc == nil {
		panic("eventReaderMock.GetByIDFunc: method is nil but eventReader.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *eventReaderMock) GetByIDCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *eventReaderMock) ListByAggregate(ctx context.Context, aggType domain.AggregateType, aggID string, limit int) ([]domain.StoredEvent, error) {
	if mock.ListByAggregateFunc == nil {
		panic("eventReaderMock.ListByAggregateFunc: method is nil but eventReader.ListByAggregate was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		AggType domain.AggregateType
		AggID   string
		Limit   int
	}{Ctx: ctx, AggType: aggType, AggID: aggID, Limit: limit}
	mock.lockListByAggregate.Lock()
	mock.calls.ListByAggregate = append(mock.calls.ListByAggregate, callInfo)
	mock.lockListByAggregate.Unlock()
	return mock.ListByAggregateFunc(ctx, aggType, aggID, limit)
}

func (mock *eventReaderMock) ListByAggregateCalls() []struct {
	Ctx     context.Context
	AggType domain.AggregateType
	AggID   string
	Limit   int
} {
	mock.lockListByAggregate.RLock()
	calls := mock.calls.ListByAggregate
	mock.lockListByAggregate.RUnlock()
	return calls
}
