// Package preview implements the PreviewAsset read model repository using PostgreSQL.
package preview

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

const table = "preview_assets"

var columns = []string{
	"slide_id", "case_id", "bucket", "region", "endpoint", "base_prefix",
	"thumb_key", "manifest_key", "tiles_prefix", "max_level", "tile_size", "format",
	"preview_width", "preview_height",
	"created_at", "updated_at", "last_event_id", "last_occurred_at",
}

// Repo provides PreviewAsset persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new preview asset repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type assetRow struct {
	SlideID        string    `db:"slide_id"`
	CaseID         string    `db:"case_id"`
	Bucket         string    `db:"bucket"`
	Region         string    `db:"region"`
	Endpoint       *string   `db:"endpoint"`
	BasePrefix     string    `db:"base_prefix"`
	ThumbKey       string    `db:"thumb_key"`
	ManifestKey    string    `db:"manifest_key"`
	TilesPrefix    string    `db:"tiles_prefix"`
	MaxLevel       int       `db:"max_level"`
	TileSize       int       `db:"tile_size"`
	Format         string    `db:"format"`
	PreviewWidth   *int64    `db:"preview_width"`
	PreviewHeight  *int64    `db:"preview_height"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	LastEventID    uuid.UUID `db:"last_event_id"`
	LastOccurredAt time.Time `db:"last_occurred_at"`
}

func (r assetRow) toDomain() domain.PreviewAsset {
	return domain.PreviewAsset{
		SlideID:       r.SlideID,
		CaseID:        r.CaseID,
		Bucket:        r.Bucket,
		Region:        r.Region,
		Endpoint:      r.Endpoint,
		BasePrefix:    r.BasePrefix,
		ThumbKey:      r.ThumbKey,
		ManifestKey:   r.ManifestKey,
		TilesPrefix:   r.TilesPrefix,
		MaxLevel:      r.MaxLevel,
		TileSize:      r.TileSize,
		Format:        r.Format,
		PreviewWidth:  r.PreviewWidth,
		PreviewHeight: r.PreviewHeight,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		EventRef: domain.EventRef{
			LastEventID:    r.LastEventID,
			LastOccurredAt: r.LastOccurredAt,
		},
	}
}

// Upsert creates or replaces the preview asset of a slide. A republished
// preview fully replaces the previous one; created_at is kept.
func (r *Repo) Upsert(ctx context.Context, a domain.PreviewAsset) error {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns(columns...).
		Values(a.SlideID, a.CaseID, a.Bucket, a.Region, a.Endpoint, a.BasePrefix,
			a.ThumbKey, a.ManifestKey, a.TilesPrefix, a.MaxLevel, a.TileSize, a.Format,
			a.PreviewWidth, a.PreviewHeight,
			a.CreatedAt, a.UpdatedAt, a.LastEventID, a.LastOccurredAt).
		Suffix(`ON CONFLICT (slide_id) DO UPDATE SET
			case_id          = EXCLUDED.case_id,
			bucket           = EXCLUDED.bucket,
			region           = EXCLUDED.region,
			endpoint         = EXCLUDED.endpoint,
			base_prefix      = EXCLUDED.base_prefix,
			thumb_key        = EXCLUDED.thumb_key,
			manifest_key     = EXCLUDED.manifest_key,
			tiles_prefix     = EXCLUDED.tiles_prefix,
			max_level        = EXCLUDED.max_level,
			tile_size        = EXCLUDED.tile_size,
			format           = EXCLUDED.format,
			preview_width    = EXCLUDED.preview_width,
			preview_height   = EXCLUDED.preview_height,
			updated_at       = EXCLUDED.updated_at,
			last_event_id    = EXCLUDED.last_event_id,
			last_occurred_at = EXCLUDED.last_occurred_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert preview: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "preview_asset", a.SlideID)
	}
	return nil
}

// GetBySlideID returns the preview asset of a slide.
// Returns domain.ErrNotFound if the slide has no published preview.
func (r *Repo) GetBySlideID(ctx context.Context, slideID string) (*domain.PreviewAsset, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where("slide_id = ?", slideID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get preview: %w", err)
	}

	var row assetRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("preview_asset %s: %w", slideID, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "preview_asset", slideID)
	}

	a := row.toDomain()
	return &a, nil
}

// DeleteAll removes every preview asset. Used by the projection rebuild only.
func (r *Repo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, "DELETE FROM "+table)
	if err != nil {
		return 0, postgres.MapError(err, "preview_asset", "all")
	}
	return tag.RowsAffected(), nil
}
