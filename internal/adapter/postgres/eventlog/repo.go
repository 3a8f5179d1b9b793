// Package eventlog implements the append-only event log using PostgreSQL.
// Rows are only ever inserted; there is no update or delete path.
package eventlog

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/slide-relay/internal/adapter/postgres"
	"github.com/heartmarshall/slide-relay/internal/domain"
)

const (
	table = "events"

	defaultListLimit = 500
	maxListLimit     = 5000
)

var insertColumns = []string{
	"event_id", "origin_id", "aggregate_type", "aggregate_id",
	"event_type", "occurred_at", "payload",
}

var selectColumns = append(append([]string{}, insertColumns...), "received_at", "seq")

// Repo provides event log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new event log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type eventRow struct {
	EventID       uuid.UUID `db:"event_id"`
	OriginID      string    `db:"origin_id"`
	AggregateType string    `db:"aggregate_type"`
	AggregateID   string    `db:"aggregate_id"`
	EventType     string    `db:"event_type"`
	OccurredAt    time.Time `db:"occurred_at"`
	Payload       []byte    `db:"payload"`
	ReceivedAt    time.Time `db:"received_at"`
	Seq           int64     `db:"seq"`
}

func (r eventRow) toDomain() domain.StoredEvent {
	return domain.StoredEvent{
		Event: domain.Event{
			EventID:       r.EventID,
			OriginID:      r.OriginID,
			AggregateType: domain.AggregateType(r.AggregateType),
			AggregateID:   r.AggregateID,
			EventType:     r.EventType,
			OccurredAt:    r.OccurredAt,
			Payload:       r.Payload,
		},
		Seq:        r.Seq,
		ReceivedAt: r.ReceivedAt,
	}
}

// ExistingIDs returns the subset of ids already present in the log.
func (r *Repo) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	found := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := postgres.Builder.
		Select("event_id").
		From(table).
		Where("event_id = ANY(?)", ids).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build existing ids query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "event", "batch")
	}

	existing, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, postgres.MapError(err, "event", "batch")
	}

	for _, id := range existing {
		found[id] = struct{}{}
	}
	return found, nil
}

// InsertBatch appends events with a single multi-row INSERT, which is atomic:
// either every row is written or none is. Events whose id already exists are
// skipped by the unique constraint rather than failing the statement; the
// returned slice holds only the ids this call actually inserted.
func (r *Repo) InsertBatch(ctx context.Context, events []domain.Event) ([]uuid.UUID, error) {
	if len(events) == 0 {
		return nil, nil
	}

	builder := postgres.Builder.
		Insert(table).
		Columns(insertColumns...).
		Suffix("ON CONFLICT (event_id) DO NOTHING RETURNING event_id")

	for _, e := range events {
		builder = builder.Values(
			e.EventID, e.OriginID, string(e.AggregateType), e.AggregateID,
			e.EventType, e.OccurredAt, []byte(e.Payload),
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert batch: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "event", "batch")
	}

	inserted, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, postgres.MapError(err, "event", "batch")
	}

	return inserted, nil
}

// GetByID returns one stored event. Returns domain.ErrNotFound if absent.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredEvent, error) {
	query, args, err := postgres.Builder.
		Select(selectColumns...).
		From(table).
		Where("event_id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get event query: %w", err)
	}

	var row eventRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "event", id.String())
	}

	e := row.toDomain()
	return &e, nil
}

// ListAfter returns up to limit events with seq > afterSeq in log order.
func (r *Repo) ListAfter(ctx context.Context, afterSeq int64, limit int) ([]domain.StoredEvent, error) {
	return r.list(ctx, sq.Gt{"seq": afterSeq}, limit)
}

// ListByAggregate returns up to limit events of one aggregate in log order.
func (r *Repo) ListByAggregate(ctx context.Context, aggType domain.AggregateType, aggID string, limit int) ([]domain.StoredEvent, error) {
	return r.list(ctx, sq.Eq{"aggregate_type": string(aggType), "aggregate_id": aggID}, limit)
}

func (r *Repo) list(ctx context.Context, where sq.Sqlizer, limit int) ([]domain.StoredEvent, error) {
	query, args, err := postgres.Builder.
		Select(selectColumns...).
		From(table).
		Where(where).
		OrderBy("seq ASC").
		Limit(uint64(clampLimit(limit))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	var rows []eventRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "event", "list")
	}

	events := make([]domain.StoredEvent, len(rows))
	for i, row := range rows {
		events[i] = row.toDomain()
	}
	return events, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	}
	return limit
}
