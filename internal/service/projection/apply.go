package projection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

// Apply decodes the event payload and applies it to the read models.
// Re-applying the same event yields the same state.
func (e *Engine) Apply(ctx context.Context, ev domain.Event) Result {
	res := e.apply(ctx, ev)

	e.metrics.observe(ev.EventType, res.Outcome)

	attrs := []any{
		slog.String("event_id", ev.EventID.String()),
		slog.String("event_type", ev.EventType),
	}
	switch res.Outcome {
	case OutcomeFailed:
		e.log.WarnContext(ctx, "projection failed", append(attrs, slog.String("error", res.Reason))...)
	case OutcomeSkipped:
		e.log.WarnContext(ctx, "projection skipped", append(attrs, slog.String("reason", res.Reason))...)
	case OutcomeUnprojected:
		e.log.DebugContext(ctx, "event type not projected", attrs...)
	default:
		e.log.DebugContext(ctx, "event projected", attrs...)
	}

	return res
}

func (e *Engine) apply(ctx context.Context, ev domain.Event) Result {
	payload, err := domain.DecodePayload(ev)
	if err != nil {
		return failed(err)
	}

	ref := domain.EventRef{LastEventID: ev.EventID, LastOccurredAt: ev.OccurredAt}

	switch p := payload.(type) {
	case domain.CaseUpsertedPayload:
		return e.applyCase(ctx, p, ref)
	case domain.SlideRegisteredPayload:
		return e.applySlide(ctx, p, ref)
	case domain.PreviewPublishedPayload:
		return e.applyPreview(ctx, p, ref)
	default:
		return Result{Outcome: OutcomeUnprojected}
	}
}

func (e *Engine) applyCase(ctx context.Context, p domain.CaseUpsertedPayload, ref domain.EventRef) Result {
	c := domain.Case{
		CaseID:     strings.TrimSpace(p.CaseID),
		Title:      p.Title,
		PatientRef: *p.PatientRef,
		Status:     p.Status,
		CreatedAt:  *p.CreatedAt,
		UpdatedAt:  *p.UpdatedAt,
		EventRef:   ref,
	}

	if err := e.cases.Upsert(ctx, c); err != nil {
		return failed(fmt.Errorf("upsert case: %w", err))
	}
	return applied()
}

func (e *Engine) applySlide(ctx context.Context, p domain.SlideRegisteredPayload, ref domain.EventRef) Result {
	s := domain.Slide{
		SlideID:         strings.TrimSpace(p.SlideID),
		CaseID:          trimOrNil(p.CaseID),
		Filename:        p.Filename,
		Width:           p.Width,
		Height:          p.Height,
		MicronsPerPixel: p.MPP(),
		Scanner:         trimOrNil(p.Scanner),
		CreatedAt:       ref.LastOccurredAt,
		UpdatedAt:       ref.LastOccurredAt,
		EventRef:        ref,
	}

	if err := e.slides.Upsert(ctx, s); err != nil {
		return failed(fmt.Errorf("upsert slide: %w", err))
	}
	return applied()
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
