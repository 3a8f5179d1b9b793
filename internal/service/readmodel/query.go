package readmodel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/slide-relay/internal/adapter/objectstore"
	"github.com/heartmarshall/slide-relay/internal/domain"
)

// PreviewView is a preview asset together with signed access URLs.
// URLs are nil when signing is not configured.
type PreviewView struct {
	Asset        domain.PreviewAsset
	ThumbnailURL *objectstore.SignedURL
	ManifestURL  *objectstore.SignedURL
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field, "required")
	}
	return nil
}

// GetCase returns the case read model.
func (s *Service) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	if err := requireID("caseId", caseID); err != nil {
		return nil, err
	}
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("get case: %w", err)
	}
	return c, nil
}

// ListSlides returns the slides linked to a case. Slides may be projected
// before their case, so an unknown case yields an empty list.
func (s *Service) ListSlides(ctx context.Context, caseID string) ([]domain.Slide, error) {
	if err := requireID("caseId", caseID); err != nil {
		return nil, err
	}
	slides, err := s.slides.ListByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}
	return slides, nil
}

// GetSlide returns the slide read model.
func (s *Service) GetSlide(ctx context.Context, slideID string) (*domain.Slide, error) {
	if err := requireID("slideId", slideID); err != nil {
		return nil, err
	}
	sl, err := s.slides.GetByID(ctx, slideID)
	if err != nil {
		return nil, fmt.Errorf("get slide: %w", err)
	}
	return sl, nil
}

// GetPreview returns the preview asset of a slide with signed thumbnail
// and manifest URLs.
func (s *Service) GetPreview(ctx context.Context, slideID string) (*PreviewView, error) {
	if err := requireID("slideId", slideID); err != nil {
		return nil, err
	}
	asset, err := s.previews.GetBySlideID(ctx, slideID)
	if err != nil {
		return nil, fmt.Errorf("get preview: %w", err)
	}

	view := &PreviewView{Asset: *asset}
	if s.signer == nil {
		return view, nil
	}

	thumb, err := s.signer.SignGet(asset.Bucket, asset.ThumbKey)
	if err != nil {
		s.log.WarnContext(ctx, "sign thumbnail failed",
			slog.String("slide_id", slideID),
			slog.String("key", asset.ThumbKey),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("sign thumbnail: %w", err)
	}
	manifest, err := s.signer.SignGet(asset.Bucket, asset.ManifestKey)
	if err != nil {
		s.log.WarnContext(ctx, "sign manifest failed",
			slog.String("slide_id", slideID),
			slog.String("key", asset.ManifestKey),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("sign manifest: %w", err)
	}

	view.ThumbnailURL = &thumb
	view.ManifestURL = &manifest
	return view, nil
}

// GetEvent looks up a stored event by id.
func (s *Service) GetEvent(ctx context.Context, eventID string) (*domain.StoredEvent, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, domain.NewValidationError("eventId", "must be a UUID")
	}
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListAggregateEvents returns the stored events of one aggregate in log order.
func (s *Service) ListAggregateEvents(ctx context.Context, aggType, aggID string, limit int) ([]domain.StoredEvent, error) {
	var errs []domain.FieldError
	if !domain.AggregateType(aggType).IsValid() {
		errs = append(errs, domain.FieldError{Field: "aggregateType", Message: "unknown aggregate type"})
	}
	if strings.TrimSpace(aggID) == "" {
		errs = append(errs, domain.FieldError{Field: "aggregateId", Message: "required"})
	}
	if limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	events, err := s.events.ListByAggregate(ctx, domain.AggregateType(aggType), aggID, limit)
	if err != nil {
		return nil, fmt.Errorf("list aggregate events: %w", err)
	}
	return events, nil
}
