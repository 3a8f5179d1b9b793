// Package readmodel serves the query side: cases, slides, previews and
// event log diagnostics.
package readmodel

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/slide-relay/internal/adapter/objectstore"
	"github.com/heartmarshall/slide-relay/internal/domain"
)

type eventReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredEvent, error)
	ListByAggregate(ctx context.Context, aggType domain.AggregateType, aggID string, limit int) ([]domain.StoredEvent, error)
}

type caseReader interface {
	GetByID(ctx context.Context, caseID string) (*domain.Case, error)
}

type slideReader interface {
	GetByID(ctx context.Context, slideID string) (*domain.Slide, error)
	ListByCase(ctx context.Context, caseID string) ([]domain.Slide, error)
}

type previewReader interface {
	GetBySlideID(ctx context.Context, slideID string) (*domain.PreviewAsset, error)
}

type urlSigner interface {
	SignGet(bucket, key string) (objectstore.SignedURL, error)
}

// Service answers read queries against the projected read models.
type Service struct {
	events   eventReader
	cases    caseReader
	slides   slideReader
	previews previewReader
	signer   urlSigner
	log      *slog.Logger
}

// NewService creates a read model service. signer may be nil, in which case
// preview lookups return the asset without URLs.
func NewService(
	log *slog.Logger,
	events eventReader,
	cases caseReader,
	slides slideReader,
	previews previewReader,
	signer urlSigner,
) *Service {
	return &Service{
		events:   events,
		cases:    cases,
		slides:   slides,
		previews: previews,
		signer:   signer,
		log:      log.With("service", "readmodel"),
	}
}
