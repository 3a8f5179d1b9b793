package tunnel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Close codes sent to an agent when the relay drops its transport.
const (
	CloseReplaced = 4001
	CloseShutdown = 1001
)

// Transport is one live bidirectional channel to an edge agent.
// Send must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, msg []byte) error
	Close(code int, reason string) error
}

type result struct {
	resp *Response
	err  error
}

// Conn is the registry entry for one live transport. It owns the map of
// in-flight requests sent over that transport.
type Conn struct {
	agentID     string
	transport   Transport
	connectedAt time.Time
	lastSeen    atomic.Int64 // unix nanos

	mu      sync.Mutex
	pending map[string]chan result
	failure error // set once the conn is dead

	metrics *Metrics
	log     *slog.Logger
}

func newConn(agentID string, t Transport, now time.Time, metrics *Metrics, log *slog.Logger) *Conn {
	c := &Conn{
		agentID:     agentID,
		transport:   t,
		connectedAt: now,
		pending:     make(map[string]chan result),
		metrics:     metrics,
		log:         log.With("agent_id", agentID),
	}
	c.lastSeen.Store(now.UnixNano())
	return c
}

// AgentID returns the agent this connection belongs to.
func (c *Conn) AgentID() string { return c.agentID }

// Err returns the reason the connection died, or nil while it is live.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

func (c *Conn) touch(now time.Time) {
	c.lastSeen.Store(now.UnixNano())
}

func (c *Conn) info() ConnInfo {
	c.mu.Lock()
	pending := len(c.pending)
	c.mu.Unlock()
	return ConnInfo{
		AgentID:     c.agentID,
		ConnectedAt: c.connectedAt,
		LastSeen:    time.Unix(0, c.lastSeen.Load()),
		Pending:     pending,
	}
}

// roundTrip sends req and waits for the correlated response, the timeout,
// ctx cancellation or the death of the connection, whichever comes first.
func (c *Conn) roundTrip(ctx context.Context, req Request, timeout time.Duration) (*Response, error) {
	id := uuid.NewString()
	msg, err := encodeRequest(id, req)
	if err != nil {
		return nil, fmt.Errorf("tunnel: encode request: %w", err)
	}

	ch := make(chan result, 1)
	c.mu.Lock()
	if c.failure != nil {
		err := c.failure
		c.mu.Unlock()
		return nil, err
	}
	c.pending[id] = ch
	c.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	if err := c.transport.Send(ctx, msg); err != nil {
		c.forget(id)
		return nil, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	select {
	case r := <-ch:
		return r.resp, r.err
	case <-timer.C:
		c.forget(id)
		return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	case <-ctx.Done():
		c.forget(id)
		return nil, ctx.Err()
	}
}

func (c *Conn) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Dispatch routes one inbound message from the agent. Messages that are
// not responses, or answer a request nobody waits for any more, are dropped.
func (c *Conn) Dispatch(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Warn("undecodable tunnel message", slog.String("error", err.Error()))
		return
	}
	if env.Type != typeHTTPResponse {
		c.log.Debug("ignoring tunnel message", slog.String("type", env.Type))
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[env.RequestID]
	delete(c.pending, env.RequestID)
	c.mu.Unlock()

	if !ok {
		c.metrics.unmatchedResponse()
		c.log.Debug("response for unknown request", slog.String("request_id", env.RequestID))
		return
	}

	var msg responseMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		ch <- result{err: fmt.Errorf("%w: %w", ErrBadResponse, err)}
		return
	}
	resp, err := decodeResponse(msg)
	ch <- result{resp: resp, err: err}
}

// fail marks the conn dead and rejects every pending request with err.
// Only the first call has an effect.
func (c *Conn) fail(err error) int {
	c.mu.Lock()
	if c.failure != nil {
		c.mu.Unlock()
		return 0
	}
	c.failure = err
	pending := c.pending
	c.pending = make(map[string]chan result)
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- result{err: err}
	}
	return len(pending)
}
