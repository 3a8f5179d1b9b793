package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/slide-relay/internal/tunnel"
)

// Credentials of the cloud caller are never relayed to the lab.
var strippedProxyHeaders = []string{"Authorization", "Cookie", "X-Api-Key"}

type tunnelRegistry interface {
	Agents() []tunnel.ConnInfo
	SendRequest(ctx context.Context, agentID string, req tunnel.Request, timeout time.Duration) (*tunnel.Response, error)
}

// EdgeHandler exposes connected edge agents and proxies HTTP requests to
// them through their tunnels.
type EdgeHandler struct {
	tunnels      tunnelRegistry
	budget       tunnel.Budget
	maxBodyBytes int64
	log          *slog.Logger
}

// NewEdgeHandler creates an EdgeHandler. maxBodyBytes bounds proxied
// request bodies; non-positive means unbounded.
func NewEdgeHandler(tunnels tunnelRegistry, budget tunnel.Budget, maxBodyBytes int64, logger *slog.Logger) *EdgeHandler {
	return &EdgeHandler{
		tunnels:      tunnels,
		budget:       budget,
		maxBodyBytes: maxBodyBytes,
		log:          logger.With("handler", "edge"),
	}
}

type agentResponse struct {
	AgentID         string    `json:"agentId"`
	ConnectedAt     time.Time `json:"connectedAt"`
	LastSeen        time.Time `json:"lastSeen"`
	PendingRequests int       `json:"pendingRequests"`
}

// ListAgents handles GET /api/v1/edge/agents.
func (h *EdgeHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents := h.tunnels.Agents()
	out := make([]agentResponse, 0, len(agents))
	for _, a := range agents {
		out = append(out, agentResponse{
			AgentID:         a.AgentID,
			ConnectedAt:     a.ConnectedAt,
			LastSeen:        a.LastSeen,
			PendingRequests: a.Pending,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": out})
}

// Proxy handles * /api/v1/edge/agents/{agentId}/proxy/{path...} by
// relaying the request to the agent and copying its answer back.
func (h *EdgeHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("agentId")
	target := "/" + r.PathValue("path")
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	payload, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}

	header := r.Header.Clone()
	for _, name := range strippedProxyHeaders {
		header.Del(name)
	}

	resp, err := h.tunnels.SendRequest(r.Context(), agentID, tunnel.Request{
		Method: r.Method,
		URL:    target,
		Header: header,
		Body:   payload,
	}, h.budget.For(target))
	if err != nil {
		if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
			// Caller went away; nobody is left to answer.
			return
		}
		h.log.DebugContext(r.Context(), "proxy request failed",
			slog.String("agent_id", agentID),
			slog.String("path", target),
			slog.String("error", err.Error()),
		)
		handleError(h.log, w, r, err)
		return
	}

	for key, values := range resp.Header {
		if key == "Content-Length" {
			continue
		}
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body) //nolint:errcheck
}
