// Package slide implements the Slide read model repository using PostgreSQL.
package slide

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/slide-relay/internal/adapter/postgres"
	"github.com/heartmarshall/slide-relay/internal/domain"
)

const table = "slides"

var selectColumns = []string{
	"slide_id", "case_id", "filename", "width", "height", "mpp", "scanner", "has_preview",
	"external_case_id", "external_case_base", "external_slide_label", "confirmed_case_link",
	"created_at", "updated_at", "last_event_id", "last_occurred_at",
}

// Merge policy for re-registration: absent or empty values in the incoming
// row never overwrite known data, so a partial payload cannot zero out
// dimensions. has_preview and the external correlation fields are not
// touched by registration.
const upsertSuffix = `ON CONFLICT (slide_id) DO UPDATE SET
	case_id          = COALESCE(EXCLUDED.case_id, slides.case_id),
	filename         = COALESCE(NULLIF(EXCLUDED.filename, ''), slides.filename),
	width            = CASE WHEN EXCLUDED.width  > 0 THEN EXCLUDED.width  ELSE slides.width  END,
	height           = CASE WHEN EXCLUDED.height > 0 THEN EXCLUDED.height ELSE slides.height END,
	mpp              = CASE WHEN EXCLUDED.mpp    > 0 THEN EXCLUDED.mpp    ELSE slides.mpp    END,
	scanner          = COALESCE(NULLIF(EXCLUDED.scanner, ''), slides.scanner),
	updated_at       = EXCLUDED.updated_at,
	last_event_id    = EXCLUDED.last_event_id,
	last_occurred_at = EXCLUDED.last_occurred_at`

// Repo provides Slide persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new slide repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type slideRow struct {
	SlideID            string    `db:"slide_id"`
	CaseID             *string   `db:"case_id"`
	Filename           string    `db:"filename"`
	Width              int64     `db:"width"`
	Height             int64     `db:"height"`
	MPP                float64   `db:"mpp"`
	Scanner            *string   `db:"scanner"`
	HasPreview         bool      `db:"has_preview"`
	ExternalCaseID     *string   `db:"external_case_id"`
	ExternalCaseBase   *string   `db:"external_case_base"`
	ExternalSlideLabel *string   `db:"external_slide_label"`
	ConfirmedCaseLink  bool      `db:"confirmed_case_link"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
	LastEventID        uuid.UUID `db:"last_event_id"`
	LastOccurredAt     time.Time `db:"last_occurred_at"`
}

func (r slideRow) toDomain() domain.Slide {
	return domain.Slide{
		SlideID:            r.SlideID,
		CaseID:             r.CaseID,
		Filename:           r.Filename,
		Width:              r.Width,
		Height:             r.Height,
		MicronsPerPixel:    r.MPP,
		Scanner:            r.Scanner,
		HasPreview:         r.HasPreview,
		ExternalCaseID:     r.ExternalCaseID,
		ExternalCaseBase:   r.ExternalCaseBase,
		ExternalSlideLabel: r.ExternalSlideLabel,
		ConfirmedCaseLink:  r.ConfirmedCaseLink,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		EventRef: domain.EventRef{
			LastEventID:    r.LastEventID,
			LastOccurredAt: r.LastOccurredAt,
		},
	}
}

// Upsert registers a slide. New slides start with has_preview = false;
// existing slides are merged (see upsertSuffix).
func (r *Repo) Upsert(ctx context.Context, s domain.Slide) error {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns("slide_id", "case_id", "filename", "width", "height", "mpp", "scanner",
			"has_preview", "created_at", "updated_at", "last_event_id", "last_occurred_at").
		Values(s.SlideID, s.CaseID, s.Filename, s.Width, s.Height, s.MicronsPerPixel, s.Scanner,
			false, s.CreatedAt, s.UpdatedAt, s.LastEventID, s.LastOccurredAt).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert slide: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "slide", s.SlideID)
	}
	return nil
}

// GetByID returns a slide by id. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByID(ctx context.Context, slideID string) (*domain.Slide, error) {
	query, args, err := postgres.Builder.
		Select(selectColumns...).
		From(table).
		Where("slide_id = ?", slideID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get slide: %w", err)
	}

	var row slideRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("slide %s: %w", slideID, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "slide", slideID)
	}

	s := row.toDomain()
	return &s, nil
}

// ListByCase returns the slides of a case ordered by slide id.
func (r *Repo) ListByCase(ctx context.Context, caseID string) ([]domain.Slide, error) {
	query, args, err := postgres.Builder.
		Select(selectColumns...).
		From(table).
		Where("case_id = ?", caseID).
		OrderBy("slide_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list slides: %w", err)
	}

	var rows []slideRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "slide", "case "+caseID)
	}

	slides := make([]domain.Slide, len(rows))
	for i, row := range rows {
		slides[i] = row.toDomain()
	}
	return slides, nil
}

// ListWithoutPreview returns up to limit ids of the case's slides that have
// no preview yet, ordered by slide id.
func (r *Repo) ListWithoutPreview(ctx context.Context, caseID string, limit int) ([]string, error) {
	query, args, err := postgres.Builder.
		Select("slide_id").
		From(table).
		Where("case_id = ? AND NOT has_preview", caseID).
		OrderBy("slide_id ASC").
		Limit(uint64(max(limit, 1))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build preview candidates: %w", err)
	}

	var ids []string
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &ids, query, args...); err != nil {
		return nil, postgres.MapError(err, "slide", "case "+caseID)
	}
	return ids, nil
}

// MarkHasPreview sets has_preview = true and records the event that did it.
// Returns domain.ErrNotFound if the slide does not exist.
func (r *Repo) MarkHasPreview(ctx context.Context, slideID string, ref domain.EventRef) error {
	query, args, err := postgres.Builder.
		Update(table).
		Set("has_preview", true).
		Set("updated_at", ref.LastOccurredAt).
		Set("last_event_id", ref.LastEventID).
		Set("last_occurred_at", ref.LastOccurredAt).
		Where("slide_id = ?", slideID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark preview: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "slide", slideID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("slide %s: %w", slideID, domain.ErrNotFound)
	}
	return nil
}

// DeleteAll removes every slide (and, by cascade, every preview asset).
// Used by the projection rebuild only.
func (r *Repo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, "DELETE FROM "+table)
	if err != nil {
		return 0, postgres.MapError(err, "slide", "all")
	}
	return tag.RowsAffected(), nil
}
