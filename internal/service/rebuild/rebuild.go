package rebuild

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/slide-relay/internal/domain"
	"github.com/heartmarshall/slide-relay/internal/service/projection"
)

// ErrAlreadyRunning is returned when a rebuild is requested while one is in progress.
var ErrAlreadyRunning = fmt.Errorf("%w: projection rebuild already running", domain.ErrConflict)

// Report summarizes a finished rebuild.
type Report struct {
	Deleted     int64
	Events      int
	Applied     int
	Skipped     int
	Unprojected int
	Failed      int
	LastSeq     int64
	Duration    time.Duration
}

// Rebuild wipes the read models and replays every stored event in log
// order. Failed projections are counted and logged but do not stop the
// replay. Cancelling ctx stops between events; the read models are then
// partial until the next rebuild.
func (s *Service) Rebuild(ctx context.Context) (*Report, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer s.running.Store(false)

	start := time.Now()
	report := &Report{}

	s.log.InfoContext(ctx, "projection rebuild started")

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, t := range []struct {
			name string
			repo truncater
		}{
			{"previews", s.previews},
			{"slides", s.slides},
			{"cases", s.cases},
		} {
			n, err := t.repo.DeleteAll(ctx)
			if err != nil {
				return fmt.Errorf("reset %s: %w", t.name, err)
			}
			report.Deleted += n
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}

	for {
		page, err := s.events.ListAfter(ctx, report.LastSeq, s.pageSize)
		if err != nil {
			return report, fmt.Errorf("rebuild: read log after seq %d: %w", report.LastSeq, err)
		}

		for _, e := range page {
			if err := ctx.Err(); err != nil {
				return report, fmt.Errorf("rebuild: stopped at seq %d: %w", report.LastSeq, err)
			}
			s.count(report, s.projector.Apply(ctx, e.Event))
			report.Events++
			report.LastSeq = e.Seq
		}

		if len(page) < s.pageSize {
			break
		}
	}

	report.Duration = time.Since(start)
	s.log.InfoContext(ctx, "projection rebuild finished",
		slog.Int64("deleted", report.Deleted),
		slog.Int("events", report.Events),
		slog.Int("applied", report.Applied),
		slog.Int("skipped", report.Skipped),
		slog.Int("unprojected", report.Unprojected),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}

func (s *Service) count(r *Report, res projection.Result) {
	switch res.Outcome {
	case projection.OutcomeApplied:
		r.Applied++
	case projection.OutcomeSkipped:
		r.Skipped++
	case projection.OutcomeUnprojected:
		r.Unprojected++
	case projection.OutcomeFailed:
		r.Failed++
	}
}
