package rest

import (
	"net/http"

	"github.com/heartmarshall/slide-relay/internal/transport/middleware"
)

// Handlers groups every HTTP handler the relay serves.
type Handlers struct {
	Health  *HealthHandler
	Ingest  *IngestHandler
	Read    *ReadHandler
	Edge    *EdgeHandler
	Connect *ConnectHandler
	Admin   *AdminHandler
	Metrics http.Handler
}

// Gates are the per-route authentication and throttling middleware.
type Gates struct {
	EdgeKey  middleware.Middleware
	Operator middleware.Middleware
	Admin    middleware.Middleware
	Ingest   middleware.Middleware
}

// NewRouter registers all routes on a new ServeMux.
func NewRouter(h Handlers, g Gates) *http.ServeMux {
	mux := http.NewServeMux()

	operator := func(fn http.HandlerFunc) http.Handler { return g.Operator(fn) }
	admin := func(fn http.HandlerFunc) http.Handler { return middleware.Chain(g.Operator, g.Admin)(fn) }

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	mux.Handle("POST /api/v1/events/batch", middleware.Chain(g.EdgeKey, g.Ingest)(http.HandlerFunc(h.Ingest.IngestBatch)))
	mux.Handle("GET /api/v1/events/{eventId}", operator(h.Read.GetEvent))
	mux.Handle("GET /api/v1/aggregates/{aggregateType}/{aggregateId}/events", operator(h.Read.ListAggregateEvents))
	mux.Handle("GET /api/v1/cases/{caseId}", operator(h.Read.GetCase))
	mux.Handle("GET /api/v1/cases/{caseId}/slides", operator(h.Read.ListCaseSlides))
	mux.Handle("GET /api/v1/slides/{slideId}", operator(h.Read.GetSlide))
	mux.Handle("GET /api/v1/slides/{slideId}/preview", operator(h.Read.GetPreview))

	mux.HandleFunc("GET /api/v1/edge/connect", h.Connect.Connect)
	mux.Handle("GET /api/v1/edge/agents", operator(h.Edge.ListAgents))
	mux.Handle("/api/v1/edge/agents/{agentId}/proxy/{path...}", operator(h.Edge.Proxy))

	mux.Handle("POST /api/v1/admin/projections/rebuild", admin(h.Admin.RebuildProjections))
	mux.Handle("GET /api/v1/admin/projections/rebuild", admin(h.Admin.RebuildStatus))

	return mux
}
