package tunnel

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// KeepAlive configures a WebSocket tunnel. The relay pings every
// PingInterval and drops the agent when nothing arrives for PongWait.
type KeepAlive struct {
	PingInterval    time.Duration
	PongWait        time.Duration
	WriteTimeout    time.Duration
	MaxMessageBytes int64
}

func (ka KeepAlive) withDefaults() KeepAlive {
	if ka.PingInterval <= 0 {
		ka.PingInterval = 25 * time.Second
	}
	if ka.PongWait <= ka.PingInterval {
		ka.PongWait = ka.PingInterval * 12 / 5
	}
	return ka
}

// WebSocketTransport adapts a gorilla/websocket conn to Transport.
// gorilla allows one concurrent writer, so writes are serialized.
type WebSocketTransport struct {
	ws           *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
}

// NewWebSocketTransport wraps ws.
func NewWebSocketTransport(ws *websocket.Conn, writeTimeout time.Duration) *WebSocketTransport {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &WebSocketTransport{ws: ws, writeTimeout: writeTimeout}
}

func (t *WebSocketTransport) deadline(ctx context.Context) time.Time {
	d := time.Now().Add(t.writeTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}

// Send writes msg as one text frame.
func (t *WebSocketTransport) Send(ctx context.Context, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ws.SetWriteDeadline(t.deadline(ctx)); err != nil {
		return err
	}
	return t.ws.WriteMessage(websocket.TextMessage, msg)
}

// Ping sends a ping control frame.
func (t *WebSocketTransport) Ping() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(t.writeTimeout))
}

// Close sends a close frame with code and reason, then closes the socket.
func (t *WebSocketTransport) Close(code int, reason string) error {
	t.mu.Lock()
	werr := t.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(t.writeTimeout))
	t.mu.Unlock()

	cerr := t.ws.Close()
	if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
		return werr
	}
	return cerr
}

// Serve registers ws as the tunnel of agentID and pumps inbound messages
// until the peer goes away, stops answering pings, the conn is replaced
// or ctx is cancelled. A clean shutdown returns nil.
func Serve(ctx context.Context, reg *Registry, agentID string, ws *websocket.Conn, ka KeepAlive) error {
	ka = ka.withDefaults()
	t := NewWebSocketTransport(ws, ka.WriteTimeout)
	c := reg.Register(agentID, t)
	defer reg.Unregister(agentID, c)

	if ka.MaxMessageBytes > 0 {
		ws.SetReadLimit(ka.MaxMessageBytes)
	}
	extend := func() {
		if c.Err() == nil {
			reg.UpdateLastSeen(agentID)
		}
		_ = ws.SetReadDeadline(time.Now().Add(ka.PongWait))
	}
	extend()
	ws.SetPongHandler(func(string) error {
		extend()
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go keepAlive(ctx, t, ka.PingInterval, done, c.log)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if c.Err() != nil || ctx.Err() != nil ||
				websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		extend()
		c.Dispatch(data)
	}
}

func keepAlive(ctx context.Context, t *WebSocketTransport, interval time.Duration, done <-chan struct{}, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			_ = t.Close(CloseShutdown, "shutting down")
			return
		case <-ticker.C:
			if err := t.Ping(); err != nil {
				log.Debug("ping failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}
