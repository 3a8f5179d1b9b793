package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/heartmarshall/slide-relay/internal/service/rebuild"
)

const probeTimeout = 3 * time.Second

type dbPinger interface {
	Ping(ctx context.Context) error
}

// agentCounter reports how many edge agents hold a live tunnel.
type agentCounter interface {
	Count() int
}

type rebuildProbe interface {
	Status() rebuild.Status
}

// HealthHandler serves the liveness, readiness and health endpoints.
type HealthHandler struct {
	db      dbPinger
	agents  agentCounter
	rebuild rebuildProbe
	version string
}

// HealthOption configures optional health components.
type HealthOption func(*HealthHandler)

// WithRebuildStatus adds a "projections" component reporting whether the
// read models are being rebuilt. A rebuild never fails the check.
func WithRebuildStatus(p rebuildProbe) HealthOption {
	return func(h *HealthHandler) { h.rebuild = p }
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db dbPinger, agents agentCounter, version string, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{db: db, agents: agents, version: version}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HealthResponse is the JSON response for the probe endpoints.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// Live always answers 200 while the process serves HTTP.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready answers 503 when the database is unreachable. Edge agents are not
// a readiness condition: the relay must accept them to have any.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	db := h.pingDB(r.Context())
	writeJSON(w, statusCode(db.Status), HealthResponse{Status: db.Status, Timestamp: time.Now()})
}

// Health reports every component. Only the database decides the overall
// status; zero connected agents or a running rebuild are informational.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	db := h.pingDB(r.Context())
	agents := h.agents.Count()

	components := map[string]CompStatus{
		"database": db,
		"tunnel":   {Status: "ok", Count: &agents},
	}
	if h.rebuild != nil {
		st := h.rebuild.Status()
		proj := CompStatus{Status: "ok"}
		if st.Running || st.Pending {
			proj.Status = "rebuilding"
		}
		components["projections"] = proj
	}

	writeJSON(w, statusCode(db.Status), HealthResponse{
		Status:     db.Status,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) pingDB(ctx context.Context) CompStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return CompStatus{Status: "down"}
	}
	return CompStatus{Status: "ok", Latency: time.Since(start).String()}
}

func statusCode(status string) int {
	if status == "ok" {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
