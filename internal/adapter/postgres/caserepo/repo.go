// Package caserepo implements the Case read model repository using PostgreSQL.
package caserepo

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

const table = "cases"

var columns = []string{
	"case_id", "title", "patient_ref", "status",
	"created_at", "updated_at", "last_event_id", "last_occurred_at",
}

// Repo provides Case persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new case repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type caseRow struct {
	CaseID         string    `db:"case_id"`
	Title          string    `db:"title"`
	PatientRef     string    `db:"patient_ref"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	LastEventID    uuid.UUID `db:"last_event_id"`
	LastOccurredAt time.Time `db:"last_occurred_at"`
}

func (r caseRow) toDomain() domain.Case {
	return domain.Case{
		CaseID:     r.CaseID,
		Title:      r.Title,
		PatientRef: r.PatientRef,
		Status:     domain.CaseStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		EventRef: domain.EventRef{
			LastEventID:    r.LastEventID,
			LastOccurredAt: r.LastOccurredAt,
		},
	}
}

// Upsert creates the case or fully replaces its mutable fields.
// created_at is kept from the first insert.
func (r *Repo) Upsert(ctx context.Context, c domain.Case) error {
	query, args, err := postgres.Builder.
		Insert(table).
		Columns(columns...).
		Values(c.CaseID, c.Title, c.PatientRef, string(c.Status),
			c.CreatedAt, c.UpdatedAt, c.LastEventID, c.LastOccurredAt).
		Suffix(`ON CONFLICT (case_id) DO UPDATE SET
			title            = EXCLUDED.title,
			patient_ref      = EXCLUDED.patient_ref,
			status           = EXCLUDED.status,
			updated_at       = EXCLUDED.updated_at,
			last_event_id    = EXCLUDED.last_event_id,
			last_occurred_at = EXCLUDED.last_occurred_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert case: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "case", c.CaseID)
	}
	return nil
}

// GetByID returns a case by id. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByID(ctx context.Context, caseID string) (*domain.Case, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where("case_id = ?", caseID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get case: %w", err)
	}

	var row caseRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("case %s: %w", caseID, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "case", caseID)
	}

	c := row.toDomain()
	return &c, nil
}

// DeleteAll removes every case. Used by the projection rebuild only.
func (r *Repo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, "DELETE FROM "+table)
	if err != nil {
		return 0, postgres.MapError(err, "case", "all")
	}
	return tag.RowsAffected(), nil
}
