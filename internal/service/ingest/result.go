package ingest

import "github.com/google/uuid"

// Rejection is an event excluded from the batch, with a human-readable reason.
type Rejection struct {
	EventID string
	Reason  string
}

// IngestResult reports the disjoint outcome of a batch.
// AcceptedIDs lists newly stored events in batch order.
type IngestResult struct {
	Accepted    int
	Duplicated  int
	Rejected    []Rejection
	AcceptedIDs []uuid.UUID
	LastCursor  *string
}
