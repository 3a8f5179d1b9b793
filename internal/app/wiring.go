package app

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/slide-relay/internal/adapter/postgres"
	"github.com/heartmarshall/slide-relay/internal/adapter/postgres/caserepo"
	"github.com/heartmarshall/slide-relay/internal/adapter/postgres/eventlog"
	"github.com/heartmarshall/slide-relay/internal/adapter/postgres/preview"
	"github.com/heartmarshall/slide-relay/internal/adapter/postgres/slide"
	"github.com/heartmarshall/slide-relay/internal/service/projection"
	"github.com/heartmarshall/slide-relay/internal/service/rebuild"
)

// Storage bundles the Postgres-backed repositories.
type Storage struct {
	Events   *eventlog.Repo
	Cases    *caserepo.Repo
	Slides   *slide.Repo
	Previews *preview.Repo
	Tx       *postgres.TxManager
}

// NewStorage creates every repository on pool.
func NewStorage(pool *pgxpool.Pool) *Storage {
	return &Storage{
		Events:   eventlog.New(pool),
		Cases:    caserepo.New(pool),
		Slides:   slide.New(pool),
		Previews: preview.New(pool),
		Tx:       postgres.NewTxManager(pool),
	}
}

// NewProjectionEngine creates the projection engine over st. reg may be nil.
func NewProjectionEngine(logger *slog.Logger, st *Storage, reg prometheus.Registerer) *projection.Engine {
	return projection.NewEngine(logger, st.Cases, st.Slides, st.Previews, st.Tx, projection.NewMetrics(reg))
}

// NewRebuildService creates the projection rebuild service over st.
func NewRebuildService(logger *slog.Logger, st *Storage, engine *projection.Engine, pageSize int) *rebuild.Service {
	return rebuild.NewService(logger, st.Events, engine, st.Previews, st.Slides, st.Cases, st.Tx, pageSize)
}
