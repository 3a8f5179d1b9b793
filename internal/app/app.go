package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/slide-relay/internal/adapter/objectstore"
	"github.com/heartmarshall/slide-relay/internal/adapter/postgres"
	"github.com/heartmarshall/slide-relay/internal/auth"
	"github.com/heartmarshall/slide-relay/internal/config"
	"github.com/heartmarshall/slide-relay/internal/service/ingest"
	"github.com/heartmarshall/slide-relay/internal/service/readmodel"
	"github.com/heartmarshall/slide-relay/internal/service/rebuild"
	"github.com/heartmarshall/slide-relay/internal/transport/middleware"
	"github.com/heartmarshall/slide-relay/internal/transport/rest"
	"github.com/heartmarshall/slide-relay/internal/tunnel"
	"github.com/heartmarshall/slide-relay/internal/worker"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires services and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if !cfg.Database.SkipMigrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Services
	st := NewStorage(pool)
	engine := NewProjectionEngine(logger, st, reg)
	ingestSvc := ingest.NewService(logger, st.Events, engine, cfg.Ingest.MaxBatchSize, ingest.NewMetrics(reg))

	var readSvc *readmodel.Service
	if cfg.Storage.SigningEnabled() {
		signer, err := objectstore.NewSigner(cfg.Storage)
		if err != nil {
			return fmt.Errorf("storage signer: %w", err)
		}
		readSvc = readmodel.NewService(logger, st.Events, st.Cases, st.Slides, st.Previews, signer)
	} else {
		logger.Warn("storage signing credentials not set, preview URLs disabled")
		readSvc = readmodel.NewService(logger, st.Events, st.Cases, st.Slides, st.Previews, nil)
	}

	rebuilds := rebuild.NewScheduler(logger,
		NewRebuildService(logger, st, engine, cfg.Rebuild.PageSize),
		worker.NewMetrics(reg, "rebuild"),
	)
	if err := rebuilds.Start(ctx); err != nil {
		return fmt.Errorf("start rebuild worker: %w", err)
	}

	tunnels := tunnel.NewRegistry(logger, tunnel.NewMetrics(reg))

	// Auth
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	edgeKeys := auth.NewEdgeKeyVerifier(cfg.Auth.EdgeKeys)
	tunnelAuth := auth.NewTunnelAuthenticator(cfg.Tunnel.SharedSecret)
	if !tunnelAuth.Enabled() {
		logger.Warn("tunnel shared secret not set, edge agents cannot connect")
	}
	if edgeKeys.Origins() == 0 {
		logger.Warn("no edge api keys configured, event ingestion is closed")
	}

	// HTTP
	limiter := middleware.NewRateLimiter(5 * time.Minute)
	defer limiter.Stop()

	// Proxied bodies travel base64-encoded inside one tunnel message.
	proxyBodyLimit := cfg.Tunnel.MaxMessageBytes / 2

	router := rest.NewRouter(rest.Handlers{
		Health:  rest.NewHealthHandler(pool, tunnels, BuildVersion(), rest.WithRebuildStatus(rebuilds)),
		Ingest:  rest.NewIngestHandler(ingestSvc, cfg.Ingest.MaxBodyBytes, logger),
		Read:    rest.NewReadHandler(readSvc, logger),
		Edge:    rest.NewEdgeHandler(tunnels, tunnelBudget(cfg.Tunnel), proxyBodyLimit, logger),
		Connect: rest.NewConnectHandler(tunnels, tunnelAuth, keepAlive(cfg.Tunnel), logger),
		Admin:   rest.NewAdminHandler(rebuilds, logger),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}, rest.Gates{
		EdgeKey:  middleware.RequireEdgeKey(edgeKeys),
		Operator: middleware.RequireOperator(jwtManager),
		Admin:    middleware.RequireAdmin(),
		Ingest:   limiter.Limit(cfg.Ingest.RateLimitPerMinute),
	})

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		// Tunnels are hijacked connections that Shutdown does not track,
		// so they are closed first to release their handlers.
		tunnels.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", slog.String("error", err.Error()))
		}
		if err := rebuilds.Stop(cfg.Server.ShutdownTimeout); err != nil {
			logger.Error("rebuild worker stop", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

func tunnelBudget(cfg config.TunnelConfig) tunnel.Budget {
	return tunnel.Budget{Health: cfg.HealthTimeout, Default: cfg.RequestTimeout}
}

func keepAlive(cfg config.TunnelConfig) tunnel.KeepAlive {
	return tunnel.KeepAlive{
		PingInterval:    cfg.PingInterval,
		PongWait:        cfg.PongWait,
		WriteTimeout:    cfg.WriteTimeout,
		MaxMessageBytes: cfg.MaxMessageBytes,
	}
}
