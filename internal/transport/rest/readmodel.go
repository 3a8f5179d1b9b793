package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/slide-relay/internal/domain"
	"github.com/heartmarshall/slide-relay/internal/service/readmodel"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

type readService interface {
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
	ListSlides(ctx context.Context, caseID string) ([]domain.Slide, error)
	GetSlide(ctx context.Context, slideID string) (*domain.Slide, error)
	GetPreview(ctx context.Context, slideID string) (*readmodel.PreviewView, error)
	GetEvent(ctx context.Context, eventID string) (*domain.StoredEvent, error)
	ListAggregateEvents(ctx context.Context, aggType, aggID string, limit int) ([]domain.StoredEvent, error)
}

// ReadHandler serves the read models and event diagnostics to operators.
type ReadHandler struct {
	svc readService
	log *slog.Logger
}

// NewReadHandler creates a ReadHandler.
func NewReadHandler(svc readService, logger *slog.Logger) *ReadHandler {
	return &ReadHandler{svc: svc, log: logger.With("handler", "read")}
}

type caseResponse struct {
	CaseID         string    `json:"caseId"`
	Title          string    `json:"title"`
	PatientRef     string    `json:"patientRef"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	LastEventID    string    `json:"lastEventId"`
	LastOccurredAt time.Time `json:"lastOccurredAt"`
}

type slideResponse struct {
	SlideID            string    `json:"slideId"`
	CaseID             *string   `json:"caseId"`
	Filename           string    `json:"filename"`
	Width              int64     `json:"width"`
	Height             int64     `json:"height"`
	MicronsPerPixel    float64   `json:"mpp"`
	Scanner            *string   `json:"scanner,omitempty"`
	HasPreview         bool      `json:"hasPreview"`
	ExternalCaseID     *string   `json:"externalCaseId,omitempty"`
	ExternalCaseBase   *string   `json:"externalCaseBase,omitempty"`
	ExternalSlideLabel *string   `json:"externalSlideLabel,omitempty"`
	ConfirmedCaseLink  bool      `json:"confirmedCaseLink"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	LastEventID        string    `json:"lastEventId"`
	LastOccurredAt     time.Time `json:"lastOccurredAt"`
}

type signedURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type previewResponse struct {
	SlideID       string             `json:"slideId"`
	CaseID        string             `json:"caseId"`
	Bucket        string             `json:"bucket"`
	Region        string             `json:"region,omitempty"`
	Endpoint      *string            `json:"endpoint,omitempty"`
	BasePrefix    string             `json:"basePrefix"`
	ThumbKey      string             `json:"thumbKey"`
	ManifestKey   string             `json:"manifestKey"`
	TilesPrefix   string             `json:"tilesPrefix"`
	MaxLevel      int                `json:"maxLevel"`
	TileSize      int                `json:"tileSize"`
	Format        string             `json:"format"`
	PreviewWidth  *int64             `json:"previewWidth,omitempty"`
	PreviewHeight *int64             `json:"previewHeight,omitempty"`
	ThumbnailURL  *signedURLResponse `json:"thumbnailUrl,omitempty"`
	ManifestURL   *signedURLResponse `json:"manifestUrl,omitempty"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type eventResponse struct {
	Seq           int64           `json:"seq"`
	EventID       string          `json:"eventId"`
	OriginID      string          `json:"originId"`
	AggregateType string          `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     string          `json:"eventType"`
	OccurredAt    time.Time       `json:"occurredAt"`
	ReceivedAt    time.Time       `json:"receivedAt"`
	Payload       json.RawMessage `json:"payload"`
}

// GetCase handles GET /api/v1/cases/{caseId}.
func (h *ReadHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCase(r.Context(), r.PathValue("caseId"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCaseResponse(*c))
}

// ListCaseSlides handles GET /api/v1/cases/{caseId}/slides.
func (h *ReadHandler) ListCaseSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.svc.ListSlides(r.Context(), r.PathValue("caseId"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]slideResponse, 0, len(slides))
	for _, s := range slides {
		out = append(out, toSlideResponse(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"slides": out})
}

// GetSlide handles GET /api/v1/slides/{slideId}.
func (h *ReadHandler) GetSlide(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.GetSlide(r.Context(), r.PathValue("slideId"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSlideResponse(*s))
}

// GetPreview handles GET /api/v1/slides/{slideId}/preview.
func (h *ReadHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetPreview(r.Context(), r.PathValue("slideId"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPreviewResponse(view))
}

// GetEvent handles GET /api/v1/events/{eventId}.
func (h *ReadHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.GetEvent(r.Context(), r.PathValue("eventId"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(*e))
}

// ListAggregateEvents handles
// GET /api/v1/aggregates/{aggregateType}/{aggregateId}/events?limit=N.
func (h *ReadHandler) ListAggregateEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxEventLimit {
			handleError(h.log, w, r, domain.NewValidationError("limit", "must be an integer between 1 and 1000"))
			return
		}
		limit = n
	}

	events, err := h.svc.ListAggregateEvents(r.Context(), r.PathValue("aggregateType"), r.PathValue("aggregateId"), limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

func toCaseResponse(c domain.Case) caseResponse {
	return caseResponse{
		CaseID:         c.CaseID,
		Title:          c.Title,
		PatientRef:     c.PatientRef,
		Status:         c.Status.String(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		LastEventID:    c.LastEventID.String(),
		LastOccurredAt: c.LastOccurredAt,
	}
}

func toSlideResponse(s domain.Slide) slideResponse {
	return slideResponse{
		SlideID:            s.SlideID,
		CaseID:             s.CaseID,
		Filename:           s.Filename,
		Width:              s.Width,
		Height:             s.Height,
		MicronsPerPixel:    s.MicronsPerPixel,
		Scanner:            s.Scanner,
		HasPreview:         s.HasPreview,
		ExternalCaseID:     s.ExternalCaseID,
		ExternalCaseBase:   s.ExternalCaseBase,
		ExternalSlideLabel: s.ExternalSlideLabel,
		ConfirmedCaseLink:  s.ConfirmedCaseLink,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
		LastEventID:        s.LastEventID.String(),
		LastOccurredAt:     s.LastOccurredAt,
	}
}

func toPreviewResponse(v *readmodel.PreviewView) previewResponse {
	a := v.Asset
	out := previewResponse{
		SlideID:       a.SlideID,
		CaseID:        a.CaseID,
		Bucket:        a.Bucket,
		Region:        a.Region,
		Endpoint:      a.Endpoint,
		BasePrefix:    a.BasePrefix,
		ThumbKey:      a.ThumbKey,
		ManifestKey:   a.ManifestKey,
		TilesPrefix:   a.TilesPrefix,
		MaxLevel:      a.MaxLevel,
		TileSize:      a.TileSize,
		Format:        a.Format,
		PreviewWidth:  a.PreviewWidth,
		PreviewHeight: a.PreviewHeight,
		UpdatedAt:     a.UpdatedAt,
	}
	if v.ThumbnailURL != nil {
		out.ThumbnailURL = &signedURLResponse{URL: v.ThumbnailURL.URL, ExpiresAt: v.ThumbnailURL.ExpiresAt}
	}
	if v.ManifestURL != nil {
		out.ManifestURL = &signedURLResponse{URL: v.ManifestURL.URL, ExpiresAt: v.ManifestURL.ExpiresAt}
	}
	return out
}

func toEventResponse(e domain.StoredEvent) eventResponse {
	return eventResponse{
		Seq:           e.Seq,
		EventID:       e.EventID.String(),
		OriginID:      e.OriginID,
		AggregateType: e.AggregateType.String(),
		AggregateID:   e.AggregateID,
		EventType:     e.EventType,
		OccurredAt:    e.OccurredAt,
		ReceivedAt:    e.ReceivedAt,
		Payload:       e.Payload,
	}
}
