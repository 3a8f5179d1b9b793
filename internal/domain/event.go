package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AggregateType identifies the kind of entity an event is about.
type AggregateType string

const (
	AggregateCase       AggregateType = "case"
	AggregateSlide      AggregateType = "slide"
	AggregateAnnotation AggregateType = "annotation"
	AggregateThread     AggregateType = "thread"
	AggregateMessage    AggregateType = "message"
	AggregatePreview    AggregateType = "preview"
)

func (a AggregateType) String() string { return string(a) }

func (a AggregateType) IsValid() bool {
	switch a {
	case AggregateCase, AggregateSlide, AggregateAnnotation,
		AggregateThread, AggregateMessage, AggregatePreview:
		return true
	}
	return false
}

// Event types understood by the projection engine. Any other value is
// stored as-is and left unprojected.
const (
	EventTypeCaseUpserted     = "CaseUpserted"
	EventTypeSlideRegistered  = "SlideRegistered"
	EventTypePreviewPublished = "PreviewPublished"
)

// Event is an immutable fact produced by an edge agent.
// EventID is the producer-assigned idempotency key.
type Event struct {
	EventID       uuid.UUID
	OriginID      string
	AggregateType AggregateType
	AggregateID   string
	EventType     string
	OccurredAt    time.Time
	Payload       json.RawMessage
}

// StoredEvent is an Event as recorded in the event log.
// Seq is the log position assigned on append.
type StoredEvent struct {
	Event
	Seq        int64
	ReceivedAt time.Time
}
