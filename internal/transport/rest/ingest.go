package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/slide-relay/internal/service/ingest"
	"github.com/heartmarshall/slide-relay/pkg/ctxutil"
)

type ingestService interface {
	Ingest(ctx context.Context, in ingest.IngestInput) (*ingest.IngestResult, error)
}

// IngestHandler accepts event batches from edge agents.
type IngestHandler struct {
	svc          ingestService
	maxBodyBytes int64
	log          *slog.Logger
}

// NewIngestHandler creates an IngestHandler. A non-positive maxBodyBytes
// leaves the body size unbounded.
func NewIngestHandler(svc ingestService, maxBodyBytes int64, logger *slog.Logger) *IngestHandler {
	return &IngestHandler{svc: svc, maxBodyBytes: maxBodyBytes, log: logger.With("handler", "ingest")}
}

type eventRequest struct {
	EventID       string          `json:"eventId"`
	OriginID      string          `json:"originId"`
	AggregateType string          `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     string          `json:"eventType"`
	OccurredAt    string          `json:"occurredAt"`
	Payload       json.RawMessage `json:"payload"`
}

type batchRequest struct {
	OriginID string         `json:"originId"`
	Cursor   *string        `json:"cursor,omitempty"`
	Events   []eventRequest `json:"events"`
}

type rejectionResponse struct {
	EventID string `json:"eventId"`
	Reason  string `json:"reason"`
}

type batchResponse struct {
	Accepted   int                 `json:"accepted"`
	Duplicated int                 `json:"duplicated"`
	Rejected   []rejectionResponse `json:"rejected"`
	LastCursor *string             `json:"lastCursor,omitempty"`
}

// IngestBatch handles POST /api/v1/events/batch.
// The batch origin must be the origin the API key belongs to.
func (h *IngestHandler) IngestBatch(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if origin, ok := ctxutil.OriginFromCtx(r.Context()); ok {
		if req.OriginID == "" {
			req.OriginID = origin
		}
		if req.OriginID != origin {
			h.log.WarnContext(r.Context(), "batch origin does not match api key",
				slog.String("claimed", req.OriginID),
				slog.String("authenticated", origin),
			)
			writeError(w, http.StatusForbidden, "origin does not match api key")
			return
		}
	}

	result, err := h.svc.Ingest(r.Context(), req.toInput())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBatchResponse(result))
}

func (req batchRequest) toInput() ingest.IngestInput {
	in := ingest.IngestInput{
		OriginID: req.OriginID,
		Cursor:   req.Cursor,
		Events:   make([]ingest.EventInput, len(req.Events)),
	}
	for i, e := range req.Events {
		in.Events[i] = ingest.EventInput{
			EventID:       e.EventID,
			OriginID:      e.OriginID,
			AggregateType: e.AggregateType,
			AggregateID:   e.AggregateID,
			EventType:     e.EventType,
			OccurredAt:    e.OccurredAt,
			Payload:       e.Payload,
		}
	}
	return in
}

func toBatchResponse(res *ingest.IngestResult) batchResponse {
	out := batchResponse{
		Accepted:   res.Accepted,
		Duplicated: res.Duplicated,
		Rejected:   make([]rejectionResponse, 0, len(res.Rejected)),
		LastCursor: res.LastCursor,
	}
	for _, rej := range res.Rejected {
		out.Rejected = append(out.Rejected, rejectionResponse{EventID: rej.EventID, Reason: rej.Reason})
	}
	return out
}
