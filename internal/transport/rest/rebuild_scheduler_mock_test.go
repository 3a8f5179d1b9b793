package rest

import (
	"sync"

	"github.com/heartmarshall/slide-relay/internal/service/rebuild"
)

var _ rebuildScheduler = &rebuildSchedulerMock{}

type rebuildSchedulerMock struct {
	ScheduleFunc func(requestedBy string) (rebuild.Task, error)
	StatusFunc   func() rebuild.Status

	calls struct {
		Schedule []struct {
			RequestedBy string
		}
		Status []struct {
		}
	}
	lockSchedule sync.RWMutex
	lockStatus   sync.RWMutex
}

func (mock *rebuildSchedulerMock) Schedule(requestedBy string) (rebuild.Task, error) {
	if mock.ScheduleFunc == nil {
		panic("rebuildSchedulerMock.ScheduleFunc: method is nil but rebuildScheduler.Schedule was just called")
	}
	callInfo := struct {
		RequestedBy string
	}{RequestedBy: requestedBy}
	mock.lockSchedule.Lock()
	mock.calls.Schedule = append(mock.calls.Schedule, callInfo)
	mock.lockSchedule.Unlock()
	return mock.ScheduleFunc(requestedBy)
}

func (mock *rebuildSchedulerMock) ScheduleCalls() []struct {
	RequestedBy string
} {
	mock.lockSchedule.RLock()
	calls := mock.calls.Schedule
	mock.lockSchedule.RUnlock()
	return calls
}

func (mock *rebuildSchedulerMock) Status() rebuild.Status {
	if mock.StatusFunc == nil {
		panic("rebuildSchedulerMock.StatusFunc: method is nil but rebuildScheduler.Status was just called")
	}
	callInfo := struct {
	}{}
	mock.lockStatus.Lock()
	mock.calls.Status = append(mock.calls.Status, callInfo)
	mock.lockStatus.Unlock()
	return mock.StatusFunc()
}

func (mock *rebuildSchedulerMock) StatusCalls() []struct {

} {
	mock.lockStatus.RLock()
	calls := mock.calls.Status
	mock.lockStatus.RUnlock()
	return calls
}
