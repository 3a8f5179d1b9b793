package tunnel

import "errors"

var (
	// ErrAgentNotConnected means no live transport exists for the agent.
	ErrAgentNotConnected = errors.New("tunnel: agent not connected")
	// ErrTimeout means the agent did not answer within the request budget.
	ErrTimeout = errors.New("tunnel: request timed out")
	// ErrReplaced means the agent reconnected while the request was in flight.
	ErrReplaced = errors.New("tunnel: connection replaced")
	// ErrDisconnected means the transport was lost while the request was in flight.
	ErrDisconnected = errors.New("tunnel: agent disconnected")
	// ErrShutdown means the relay is shutting down.
	ErrShutdown = errors.New("tunnel: shutting down")
	// ErrSendFailed means the request could not be written to the transport.
	ErrSendFailed = errors.New("tunnel: send failed")
	// ErrBadResponse means the agent answered with a malformed response.
	ErrBadResponse = errors.New("tunnel: malformed response")
)
