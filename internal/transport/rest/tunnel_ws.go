package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/heartmarshall/slide-relay/internal/tunnel"
)

// AgentIDHeader may carry the agent id instead of the agent_id query parameter.
const AgentIDHeader = "X-Agent-Id"

var agentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

type tunnelAuthenticator interface {
	Enabled() bool
	Check(presented string) error
}

// ConnectHandler upgrades edge agents to a WebSocket tunnel.
type ConnectHandler struct {
	registry  *tunnel.Registry
	auth      tunnelAuthenticator
	keepAlive tunnel.KeepAlive
	upgrader  websocket.Upgrader
	log       *slog.Logger
}

// NewConnectHandler creates a ConnectHandler.
func NewConnectHandler(registry *tunnel.Registry, auth tunnelAuthenticator, ka tunnel.KeepAlive, logger *slog.Logger) *ConnectHandler {
	return &ConnectHandler{
		registry:  registry,
		auth:      auth,
		keepAlive: ka,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 * 1024,
			WriteBufferSize: 32 * 1024,
			// Agents are not browsers; the shared secret is the gate.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: logger.With("handler", "tunnel"),
	}
}

// Connect handles GET /api/v1/edge/connect. The agent authenticates with
// the shared tunnel secret as a bearer token. The request blocks for the
// lifetime of the tunnel.
func (h *ConnectHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if !h.auth.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "tunnel disabled")
		return
	}

	agentID := r.URL.Query().Get("agent_id")
	if agentID == "" {
		agentID = r.Header.Get(AgentIDHeader)
	}
	if !agentIDPattern.MatchString(agentID) {
		writeError(w, http.StatusBadRequest, "invalid agent id")
		return
	}

	secret, ok := bearerToken(r)
	if !ok || h.auth.Check(secret) != nil {
		h.log.WarnContext(r.Context(), "tunnel auth rejected",
			slog.String("agent_id", agentID),
			slog.String("remote_addr", r.RemoteAddr),
		)
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.DebugContext(r.Context(), "websocket upgrade failed",
			slog.String("agent_id", agentID),
			slog.String("error", err.Error()),
		)
		return
	}
	defer ws.Close()

	h.log.InfoContext(r.Context(), "agent connected",
		slog.String("agent_id", agentID),
		slog.String("remote_addr", r.RemoteAddr),
	)
	err = tunnel.Serve(r.Context(), h.registry, agentID, ws, h.keepAlive)
	attrs := []any{slog.String("agent_id", agentID)}
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	h.log.InfoContext(r.Context(), "agent disconnected", attrs...)
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
