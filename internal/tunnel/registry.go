// Package tunnel relays HTTP-shaped requests to edge agents over one
// persistent transport per agent.
//
// The Registry holds at most one live Conn per agent id. Each Conn
// correlates outbound requests with inbound responses by request id.
// Staleness detection is left to the owner of the transport: it pings the
// agent, calls UpdateLastSeen on acknowledgment and unregisters the conn
// when the peer goes quiet.
package tunnel

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// ConnInfo describes a live connection.
type ConnInfo struct {
	AgentID     string
	ConnectedAt time.Time
	LastSeen    time.Time
	Pending     int
}

// Registry tracks live tunnels by agent id. Create one per process with
// NewRegistry and Close it on shutdown.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Conn
	closed bool

	now     func() time.Time
	metrics *Metrics
	log     *slog.Logger
}

// NewRegistry creates an empty registry. metrics may be nil.
func NewRegistry(log *slog.Logger, metrics *Metrics) *Registry {
	return &Registry{
		conns:   make(map[string]*Conn),
		now:     time.Now,
		metrics: metrics,
		log:     log.With("component", "tunnel"),
	}
}

// Register installs t as the live transport for agentID. An existing conn
// for the same agent is closed with CloseReplaced and its pending requests
// fail with ErrReplaced. After Close, the transport is closed at once and
// the returned conn is already dead.
func (r *Registry) Register(agentID string, t Transport) *Conn {
	c := newConn(agentID, t, r.now(), r.metrics, r.log)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		c.fail(ErrShutdown)
		_ = t.Close(CloseShutdown, "shutting down")
		return c
	}
	old := r.conns[agentID]
	r.conns[agentID] = c
	count := len(r.conns)
	r.mu.Unlock()

	r.metrics.setConnected(count)

	if old != nil {
		rejected := old.fail(ErrReplaced)
		if err := old.transport.Close(CloseReplaced, "replaced"); err != nil {
			r.log.Debug("close replaced transport", slog.String("agent_id", agentID), slog.String("error", err.Error()))
		}
		r.metrics.replaced()
		r.log.Info("agent connection replaced",
			slog.String("agent_id", agentID),
			slog.Int("rejected_requests", rejected),
		)
		return c
	}

	r.log.Info("agent connected", slog.String("agent_id", agentID))
	return c
}

// Unregister removes c if it is still the live conn for agentID and fails
// its pending requests with ErrDisconnected. A conn that was already
// replaced leaves the registry untouched. Reports whether c was removed.
func (r *Registry) Unregister(agentID string, c *Conn) bool {
	r.mu.Lock()
	current, ok := r.conns[agentID]
	removed := ok && current == c
	if removed {
		delete(r.conns, agentID)
	}
	count := len(r.conns)
	r.mu.Unlock()

	rejected := c.fail(ErrDisconnected)
	if removed {
		r.metrics.setConnected(count)
		r.log.Info("agent disconnected",
			slog.String("agent_id", agentID),
			slog.Int("rejected_requests", rejected),
		)
	}
	return removed
}

// UpdateLastSeen records liveness for agentID. Unknown agents are ignored.
func (r *Registry) UpdateLastSeen(agentID string) {
	if c := r.lookup(agentID); c != nil {
		c.touch(r.now())
	}
}

// IsConnected reports whether agentID has a live transport.
func (r *Registry) IsConnected(agentID string) bool {
	return r.lookup(agentID) != nil
}

// Info returns metadata about the live conn of agentID.
func (r *Registry) Info(agentID string) (ConnInfo, bool) {
	c := r.lookup(agentID)
	if c == nil {
		return ConnInfo{}, false
	}
	return c.info(), true
}

// Agents lists all live connections sorted by agent id.
func (r *Registry) Agents() []ConnInfo {
	r.mu.RLock()
	conns := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.RUnlock()

	out := make([]ConnInfo, 0, len(conns))
	for _, c := range conns {
		out = append(out, c.info())
	}
	slices.SortFunc(out, func(a, b ConnInfo) int { return strings.Compare(a.AgentID, b.AgentID) })
	return out
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// SendRequest relays req to agentID and waits up to timeout for the answer.
// It fails immediately with ErrAgentNotConnected when the agent has no live
// transport; nothing is queued or retried.
func (r *Registry) SendRequest(ctx context.Context, agentID string, req Request, timeout time.Duration) (*Response, error) {
	start := r.now()

	c := r.lookup(agentID)
	if c == nil {
		r.metrics.request(ErrAgentNotConnected, 0)
		return nil, ErrAgentNotConnected
	}

	resp, err := c.roundTrip(ctx, req, timeout)
	r.metrics.request(err, r.now().Sub(start))
	if err != nil {
		r.log.Debug("tunnel request failed",
			slog.String("agent_id", agentID),
			slog.String("method", req.Method),
			slog.String("url", req.URL),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return resp, nil
}

// Close drops every live conn with ErrShutdown and refuses new ones.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	conns := r.conns
	r.conns = make(map[string]*Conn)
	r.mu.Unlock()

	r.metrics.setConnected(0)
	for id, c := range conns {
		c.fail(ErrShutdown)
		if err := c.transport.Close(CloseShutdown, "shutting down"); err != nil {
			r.log.Debug("close transport", slog.String("agent_id", id), slog.String("error", err.Error()))
		}
	}
}

func (r *Registry) lookup(agentID string) *Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[agentID]
}
