// Package ingest implements the ingestion coordinator: origin check,
// deduplication, atomic append to the event log, then projection.
package ingest

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/slide-relay/internal/domain"
	"github.com/heartmarshall/slide-relay/internal/service/projection"
)

type eventLog interface {
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error)
	InsertBatch(ctx context.Context, events []domain.Event) ([]uuid.UUID, error)
}

type projector interface {
	Apply(ctx context.Context, e domain.Event) projection.Result
}

// Service coordinates event batch ingestion. Batches from different origins
// run fully in parallel; batches from the same origin rely on the event
// log's unique event_id for correctness.
type Service struct {
	events       eventLog
	projector    projector
	maxBatchSize int
	metrics      *Metrics
	log          *slog.Logger
}

// NewService creates a new ingestion service. maxBatchSize values outside
// [1, MaxBatchSize] fall back to MaxBatchSize. metrics may be nil.
func NewService(
	log *slog.Logger,
	events eventLog,
	projector projector,
	maxBatchSize int,
	metrics *Metrics,
) *Service {
	if maxBatchSize <= 0 || maxBatchSize > MaxBatchSize {
		maxBatchSize = MaxBatchSize
	}
	return &Service{
		events:       events,
		projector:    projector,
		maxBatchSize: maxBatchSize,
		metrics:      metrics,
		log:          log.With("service", "ingest"),
	}
}
