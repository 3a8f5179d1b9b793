// Command reproject wipes the case, slide and preview read models and
// rebuilds them by replaying the event log. Run it after changing
// projection rules, or when the read models are suspected to be corrupt.
// The relay may keep serving while it runs; reads see partial state until
// it finishes.
//
// Exit codes: 0 = success, 1 = error, 2 = finished with failed projections.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/slide-relay/internal/adapter/postgres"
	"github.com/heartmarshall/slide-relay/internal/app"
	"github.com/heartmarshall/slide-relay/internal/config"
)

func main() {
	pageSize := flag.Int("page-size", 0, "events read from the log per query (default: rebuild.page_size)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if *pageSize <= 0 {
		*pageSize = cfg.Rebuild.PageSize
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	st := app.NewStorage(pool)
	svc := app.NewRebuildService(logger, st, app.NewProjectionEngine(logger, st, nil), *pageSize)

	report, err := svc.Rebuild(ctx)
	if err != nil {
		logger.Error("reprojection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("reprojection completed",
		slog.Int64("rows_deleted", report.Deleted),
		slog.Int("events", report.Events),
		slog.Int("applied", report.Applied),
		slog.Int("skipped", report.Skipped),
		slog.Int("unprojected", report.Unprojected),
		slog.Int("failed", report.Failed),
		slog.Int64("last_seq", report.LastSeq),
		slog.Duration("duration", report.Duration),
	)
	if report.Failed > 0 {
		os.Exit(2)
	}
}
