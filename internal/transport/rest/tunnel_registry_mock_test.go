package rest

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/slide-relay/internal/tunnel"
)

var _ tunnelRegistry = &tunnelRegistryMock{}

type tunnelRegistryMock struct {
	AgentsFunc      func() []tunnel.ConnInfo
	SendRequestFunc func(ctx context.Context, agentID string, req tunnel.Request, timeout time.Duration) (*tunnel.Response, error)

	calls struct {
		Agents []struct {
		}
		SendRequest []struct {
			Ctx     context.Context
			AgentID string
			Req     tunnel.Request
			Timeout time.Duration
		}
	}
	lockAgents      sync.RWMutex
	lockSendRequest sync.RWMutex
}

func (mock *tunnelRegistryMock) Agents() []tunnel.ConnInfo {
	if mock.AgentsFunc == nil {
		panic("tunnelRegistryMock.AgentsFunc: method is nil but tunnelRegistry.Agents was just called")
	}
	callInfo := struct {
	}{}
	mock.lockAgents.Lock()
	mock.calls.Agents = append(mock.calls.Agents, callInfo)
	mock.lockAgents.Unlock()
	return mock.AgentsFunc()
}

func (mock *tunnelRegistryMock) AgentsCalls() []struct {

} {
	mock.lockAgents.RLock()
	calls := mock.calls.Agents
	mock.lockAgents.RUnlock()
	return calls
}

func (mock *tunnelRegistryMock) SendRequest(ctx context.Context, agentID string, req tunnel.Request, timeout time.Duration) (*tunnel.Response, error) {
	if mock.SendRequestFunc == nil {
		panic("tunnelRegistryMock.SendRequestFunc: method is nil but tunnelRegistry.SendRequest was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		AgentID string
		Req     tunnel.Request
		Timeout time.Duration
	}{Ctx: ctx, AgentID: agentID, Req: req, Timeout: timeout}
	mock.lockSendRequest.Lock()
	mock.calls.SendRequest = append(mock.calls.SendRequest, callInfo)
	mock.lockSendRequest.Unlock()
	return mock.SendRequestFunc(ctx, agentID, req, timeout)
}

func (mock *tunnelRegistryMock) SendRequestCalls() []struct {
	Ctx     context.Context
	AgentID string
	Req     tunnel.Request
	Timeout time.Duration
} {
	mock.lockSendRequest.RLock()
	calls := mock.calls.SendRequest
	mock.lockSendRequest.RUnlock()
	return calls
}
