package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/slide-relay/internal/domain"
)

// MaxBatchSize is the hard upper bound on events per batch.
const MaxBatchSize = 1000

// EventInput is one candidate event as received from an edge agent.
// Fields are kept raw so validation can report every problem at once.
type EventInput struct {
	EventID       string
	OriginID      string
	AggregateType string
	AggregateID   string
	EventType     string
	OccurredAt    string
	Payload       json.RawMessage
}

// IngestInput is a batch of candidate events claimed by one origin.
// Cursor is opaque and echoed back unchanged.
type IngestInput struct {
	OriginID string
	Cursor   *string
	Events   []EventInput
}

// Validate checks all fields and collects all errors.
func (i IngestInput) Validate() error {
	return i.validate(MaxBatchSize)
}

func (i IngestInput) validate(maxEvents int) error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.OriginID) == "" {
		errs = append(errs, domain.FieldError{Field: "originId", Message: "required"})
	}

	switch {
	case len(i.Events) == 0:
		errs = append(errs, domain.FieldError{Field: "events", Message: "at least 1 event required"})
	case len(i.Events) > maxEvents:
		errs = append(errs, domain.FieldError{Field: "events", Message: fmt.Sprintf("too many events (max %d)", maxEvents)})
	default:
		for idx, e := range i.Events {
			errs = append(errs, e.validate(fmt.Sprintf("events[%d]", idx))...)
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (e EventInput) validate(prefix string) []domain.FieldError {
	var errs []domain.FieldError
	field := func(name string) string { return prefix + "." + name }

	if _, err := uuid.Parse(e.EventID); err != nil {
		errs = append(errs, domain.FieldError{Field: field("eventId"), Message: "must be a UUID"})
	}
	if strings.TrimSpace(e.OriginID) == "" {
		errs = append(errs, domain.FieldError{Field: field("originId"), Message: "required"})
	}
	if !domain.AggregateType(e.AggregateType).IsValid() {
		errs = append(errs, domain.FieldError{
			Field:   field("aggregateType"),
			Message: "must be one of case, slide, annotation, thread, message, preview",
		})
	}
	if strings.TrimSpace(e.AggregateID) == "" {
		errs = append(errs, domain.FieldError{Field: field("aggregateId"), Message: "required"})
	}
	if strings.TrimSpace(e.EventType) == "" {
		errs = append(errs, domain.FieldError{Field: field("eventType"), Message: "required"})
	}
	if _, err := time.Parse(time.RFC3339Nano, e.OccurredAt); err != nil {
		errs = append(errs, domain.FieldError{Field: field("occurredAt"), Message: "must be an ISO-8601 timestamp with offset"})
	}
	if p := bytes.TrimSpace(e.Payload); len(p) == 0 || p[0] != '{' || !json.Valid(p) {
		errs = append(errs, domain.FieldError{Field: field("payload"), Message: "must be a JSON object"})
	}

	return errs
}

// toDomain converts a validated input. Call only after validate succeeded.
func (e EventInput) toDomain() domain.Event {
	occurredAt, _ := time.Parse(time.RFC3339Nano, e.OccurredAt)
	return domain.Event{
		EventID:       uuid.MustParse(e.EventID),
		OriginID:      e.OriginID,
		AggregateType: domain.AggregateType(e.AggregateType),
		AggregateID:   e.AggregateID,
		EventType:     e.EventType,
		OccurredAt:    occurredAt,
		Payload:       bytes.TrimSpace(e.Payload),
	}
}
