// Package projection applies stored events to the Case, Slide and
// PreviewAsset read models.
package projection

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

type caseRepo interface {
	Upsert(ctx context.Context, c domain.Case) error
}

type slideRepo interface {
	Upsert(ctx context.Context, s domain.Slide) error
	GetByID(ctx context.Context, slideID string) (*domain.Slide, error)
	ListWithoutPreview(ctx context.Context, caseID string, limit int) ([]string, error)
	MarkHasPreview(ctx context.Context, slideID string, ref domain.EventRef) error
}

type previewRepo interface {
	Upsert(ctx context.Context, a domain.PreviewAsset) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Engine projects one event at a time. It is safe for concurrent use;
// concurrent events for the same aggregate resolve last-write-wins in storage.
type Engine struct {
	cases    caseRepo
	slides   slideRepo
	previews previewRepo
	tx       txManager
	metrics  *Metrics
	log      *slog.Logger
}

// NewEngine creates a projection engine. metrics may be nil.
func NewEngine(
	log *slog.Logger,
	cases caseRepo,
	slides slideRepo,
	previews previewRepo,
	tx txManager,
	metrics *Metrics,
) *Engine {
	return &Engine{
		cases:    cases,
		slides:   slides,
		previews: previews,
		tx:       tx,
		metrics:  metrics,
		log:      log.With("service", "projection"),
	}
}
