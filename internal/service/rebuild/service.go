// Package rebuild recomputes the read models from the event log.
package rebuild

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/heartmarshall/slide-relay/internal/domain"
	"github.com/heartmarshall/slide-relay/internal/service/projection"
)

type eventSource interface {
	ListAfter(ctx context.Context, afterSeq int64, limit int) ([]domain.StoredEvent, error)
}

type projector interface {
	Apply(ctx context.Context, e domain.Event) projection.Result
}

// truncater wipes one read model table.
type truncater interface {
	DeleteAll(ctx context.Context) (int64, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DefaultPageSize is the number of events read from the log per round trip.
const DefaultPageSize = 500

// Service replays the event log through the projection engine.
type Service struct {
	events    eventSource
	projector projector
	previews  truncater
	slides    truncater
	cases     truncater
	tx        txManager
	pageSize  int
	running   atomic.Bool
	log       *slog.Logger
}

// NewService creates a rebuild service. Read models are wiped in the
// order previews, slides, cases.
func NewService(
	log *slog.Logger,
	events eventSource,
	projector projector,
	previews, slides, cases truncater,
	tx txManager,
	pageSize int,
) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		events:    events,
		projector: projector,
		previews:  previews,
		slides:    slides,
		cases:     cases,
		tx:        tx,
		pageSize:  pageSize,
		log:       log.With("service", "rebuild"),
	}
}

// Running reports whether a rebuild is in progress.
func (s *Service) Running() bool {
	return s.running.Load()
}
