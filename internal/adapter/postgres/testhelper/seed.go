package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

// UniqueID returns prefix followed by a short random suffix, for
// non-conflicting identifiers in the shared test database.
func UniqueID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// SeedCase inserts an active case and returns it.
func SeedCase(t *testing.T, pool *pgxpool.Pool) domain.Case {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	c := domain.Case{
		CaseID:     UniqueID("case"),
		Title:      "Seeded case",
		PatientRef: "P-" + uuid.NewString()[:6],
		Status:     domain.CaseStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
		EventRef:   domain.EventRef{LastEventID: uuid.New(), LastOccurredAt: now},
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO cases (case_id, title, patient_ref, status, created_at, updated_at, last_event_id, last_occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.CaseID, c.Title, c.PatientRef, string(c.Status), c.CreatedAt, c.UpdatedAt, c.LastEventID, c.LastOccurredAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCase: %v", err)
	}

	return c
}

// SeedSlide inserts a slide without preview. caseID may be nil.
func SeedSlide(t *testing.T, pool *pgxpool.Pool, caseID *string) domain.Slide {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.Slide{
		SlideID:         UniqueID("slide"),
		CaseID:          caseID,
		Filename:        "seeded.svs",
		Width:           40000,
		Height:          30000,
		MicronsPerPixel: 0.25,
		CreatedAt:       now,
		UpdatedAt:       now,
		EventRef:        domain.EventRef{LastEventID: uuid.New(), LastOccurredAt: now},
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO slides (slide_id, case_id, filename, width, height, mpp, created_at, updated_at, last_event_id, last_occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.SlideID, s.CaseID, s.Filename, s.Width, s.Height, s.MicronsPerPixel, s.CreatedAt, s.UpdatedAt, s.LastEventID, s.LastOccurredAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSlide: %v", err)
	}

	return s
}

// NewEvent builds (but does not store) an event from origin with the given
// type and JSON payload.
func NewEvent(origin string, aggType domain.AggregateType, aggID, eventType, payload string) domain.Event {
	return domain.Event{
		EventID:       uuid.New(),
		OriginID:      origin,
		AggregateType: aggType,
		AggregateID:   aggID,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Truncate(time.Microsecond),
		Payload:       []byte(payload),
	}
}
