package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

// Ingest stores the new events of a batch and projects them.
//
// Events whose originId differs from the batch origin are rejected; ids
// already in the log (or repeated within the batch) are duplicates. The
// remaining events are appended in one atomic write; a failure there fails
// the whole batch with domain.ErrStorage and is safe to retry.
//
// Projection runs after the append has committed, in batch order. A failed
// projection is logged and counted but never undoes or fails the ingestion:
// the log is the source of truth and read models can be rebuilt from it.
func (s *Service) Ingest(ctx context.Context, in IngestInput) (*IngestResult, error) {
	if err := in.validate(s.maxBatchSize); err != nil {
		return nil, err
	}

	result := &IngestResult{
		Rejected:   []Rejection{},
		LastCursor: in.Cursor,
	}

	// 1. Origin check.
	candidates := make([]domain.Event, 0, len(in.Events))
	for _, raw := range in.Events {
		if raw.OriginID != in.OriginID {
			result.Rejected = append(result.Rejected, Rejection{
				EventID: raw.EventID,
				Reason:  fmt.Sprintf("origin mismatch: event origin %q does not match batch origin %q", raw.OriginID, in.OriginID),
			})
			continue
		}
		candidates = append(candidates, raw.toDomain())
	}

	// 2. Deduplication against the log and within the batch.
	fresh, err := s.dedup(ctx, candidates, result)
	if err != nil {
		s.metrics.batch(outcomeError)
		return nil, err
	}

	// 3. Atomic append.
	if len(fresh) > 0 {
		inserted, err := s.events.InsertBatch(ctx, fresh)
		if err != nil {
			s.metrics.batch(outcomeError)
			s.log.ErrorContext(ctx, "append batch failed",
				slog.String("origin_id", in.OriginID),
				slog.Int("events", len(fresh)),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("%w: append %d events: %w", domain.ErrStorage, len(fresh), err)
		}
		fresh = s.keepInserted(fresh, inserted, result)
	}

	for _, e := range fresh {
		result.AcceptedIDs = append(result.AcceptedIDs, e.EventID)
	}
	result.Accepted = len(fresh)

	s.metrics.batch(outcomeOK)
	s.metrics.countEvents(outcomeAccepted, result.Accepted)
	s.metrics.countEvents(outcomeDuplicated, result.Duplicated)
	s.metrics.countEvents(outcomeRejected, len(result.Rejected))

	// 4. Projection. The events are committed, so a client hanging up must
	// not cancel their projection half-way.
	projCtx := context.WithoutCancel(ctx)
	failedProjections := 0
	for _, e := range fresh {
		if res := s.projector.Apply(projCtx, e); !res.OK() {
			failedProjections++
		}
	}

	s.log.InfoContext(ctx, "batch ingested",
		slog.String("origin_id", in.OriginID),
		slog.Int("accepted", result.Accepted),
		slog.Int("duplicated", result.Duplicated),
		slog.Int("rejected", len(result.Rejected)),
		slog.Int("projection_failures", failedProjections),
	)

	return result, nil
}

// dedup drops events already present in the log and repeats within the
// batch, counting them as duplicated. Order is preserved.
func (s *Service) dedup(ctx context.Context, events []domain.Event, result *IngestResult) ([]domain.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.EventID
	}

	existing, err := s.events.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: check existing events: %w", domain.ErrStorage, err)
	}

	seen := make(map[uuid.UUID]struct{}, len(events))
	fresh := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if _, ok := existing[e.EventID]; ok {
			result.Duplicated++
			continue
		}
		if _, ok := seen[e.EventID]; ok {
			result.Duplicated++
			continue
		}
		seen[e.EventID] = struct{}{}
		fresh = append(fresh, e)
	}
	return fresh, nil
}

// keepInserted filters events down to those the append actually wrote.
// The rest lost a race with a concurrent batch carrying the same ids and
// count as duplicated.
func (s *Service) keepInserted(events []domain.Event, inserted []uuid.UUID, result *IngestResult) []domain.Event {
	if len(inserted) == len(events) {
		return events
	}

	written := make(map[uuid.UUID]struct{}, len(inserted))
	for _, id := range inserted {
		written[id] = struct{}{}
	}

	kept := events[:0:0]
	for _, e := range events {
		if _, ok := written[e.EventID]; ok {
			kept = append(kept, e)
			continue
		}
		result.Duplicated++
		s.log.Debug("event stored concurrently by another batch", slog.String("event_id", e.EventID.String()))
	}
	return kept
}
