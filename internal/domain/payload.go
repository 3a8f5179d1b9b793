package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Payload is the typed body of an event. The concrete type is selected by
// the event type; see DecodePayload.
type Payload interface {
	EventType() string
}

// CaseUpsertedPayload is the body of a CaseUpserted event.
type CaseUpsertedPayload struct {
	CaseID     string     `json:"case_id"`
	Title      string     `json:"title"`
	PatientRef *string    `json:"patient_ref"`
	Status     CaseStatus `json:"status"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

func (CaseUpsertedPayload) EventType() string { return EventTypeCaseUpserted }

// Validate checks all fields and collects all errors.
func (p CaseUpsertedPayload) Validate() error {
	var errs []FieldError
	if strings.TrimSpace(p.CaseID) == "" {
		errs = append(errs, FieldError{Field: "case_id", Message: "required"})
	}
	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "required"})
	}
	if p.PatientRef == nil {
		errs = append(errs, FieldError{Field: "patient_ref", Message: "required"})
	}
	if p.Status != "" && !p.Status.IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: "must be one of active, archived, deleted"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

func (p *CaseUpsertedPayload) applyDefaults(occurredAt time.Time) {
	if p.Status == "" {
		p.Status = CaseStatusActive
	}
	if p.CreatedAt == nil {
		t := occurredAt
		p.CreatedAt = &t
	}
	if p.UpdatedAt == nil {
		t := occurredAt
		p.UpdatedAt = &t
	}
}

// SlideRegisteredPayload is the body of a SlideRegistered event.
// MicronsPerPixelLegacy carries the older "microns_per_pixel" field name.
type SlideRegisteredPayload struct {
	SlideID               string  `json:"slide_id"`
	CaseID                *string `json:"case_id"`
	Filename              string  `json:"filename"`
	Width                 int64   `json:"width"`
	Height                int64   `json:"height"`
	MicronsPerPixel       float64 `json:"mpp"`
	MicronsPerPixelLegacy float64 `json:"microns_per_pixel"`
	Scanner               *string `json:"scanner"`
}

func (SlideRegisteredPayload) EventType() string { return EventTypeSlideRegistered }

// Validate checks all fields and collects all errors.
func (p SlideRegisteredPayload) Validate() error {
	var errs []FieldError
	if strings.TrimSpace(p.SlideID) == "" {
		errs = append(errs, FieldError{Field: "slide_id", Message: "required"})
	}
	if strings.TrimSpace(p.Filename) == "" {
		errs = append(errs, FieldError{Field: "filename", Message: "required"})
	}
	if p.Width <= 0 {
		errs = append(errs, FieldError{Field: "width", Message: "must be positive"})
	}
	if p.Height <= 0 {
		errs = append(errs, FieldError{Field: "height", Message: "must be positive"})
	}
	if p.MPP() <= 0 {
		errs = append(errs, FieldError{Field: "mpp", Message: "must be positive"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// MPP returns microns-per-pixel, preferring the current field name.
func (p SlideRegisteredPayload) MPP() float64 {
	if p.MicronsPerPixel > 0 {
		return p.MicronsPerPixel
	}
	return p.MicronsPerPixelLegacy
}

// PreviewPublishedPayload is the body of a PreviewPublished event.
// TilePrefixLegacy carries the older "tile_prefix" field name.
type PreviewPublishedPayload struct {
	SlideID          string  `json:"slide_id"`
	CaseID           string  `json:"case_id"`
	Bucket           string  `json:"bucket"`
	Region           string  `json:"region"` // optional, empty for single-region stores
	Endpoint         *string `json:"endpoint"`
	BasePrefix       string  `json:"base_prefix"`
	ThumbKey         string  `json:"thumb_key"`
	ManifestKey      string  `json:"manifest_key"`
	TilesPrefix      *string `json:"tiles_prefix"`
	TilePrefixLegacy *string `json:"tile_prefix"`
	MaxLevel         *int    `json:"max_level"`
	TileSize         int     `json:"tile_size"`
	Format           string  `json:"format"`
	PreviewWidth     *int64  `json:"preview_width"`
	PreviewHeight    *int64  `json:"preview_height"`
}

func (PreviewPublishedPayload) EventType() string { return EventTypePreviewPublished }

// Validate checks all fields and collects all errors.
func (p PreviewPublishedPayload) Validate() error {
	var errs []FieldError
	required := []struct{ field, value string }{
		{"slide_id", p.SlideID},
		{"case_id", p.CaseID},
		{"bucket", p.Bucket},
		{"base_prefix", p.BasePrefix},
		{"thumb_key", p.ThumbKey},
		{"manifest_key", p.ManifestKey},
		{"format", p.Format},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, FieldError{Field: r.field, Message: "required"})
		}
	}
	if strings.TrimSpace(p.rawTilesPrefix()) == "" {
		errs = append(errs, FieldError{Field: "tiles_prefix", Message: "required (tiles_prefix or tile_prefix)"})
	}
	if p.MaxLevel == nil {
		errs = append(errs, FieldError{Field: "max_level", Message: "required"})
	} else if *p.MaxLevel < 0 {
		errs = append(errs, FieldError{Field: "max_level", Message: "must be non-negative"})
	}
	if p.TileSize <= 0 {
		errs = append(errs, FieldError{Field: "tile_size", Message: "must be positive"})
	}
	if p.PreviewWidth != nil && *p.PreviewWidth <= 0 {
		errs = append(errs, FieldError{Field: "preview_width", Message: "must be positive"})
	}
	if p.PreviewHeight != nil && *p.PreviewHeight <= 0 {
		errs = append(errs, FieldError{Field: "preview_height", Message: "must be positive"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

func (p PreviewPublishedPayload) rawTilesPrefix() string {
	if p.TilesPrefix != nil && strings.TrimSpace(*p.TilesPrefix) != "" {
		return *p.TilesPrefix
	}
	if p.TilePrefixLegacy != nil {
		return *p.TilePrefixLegacy
	}
	return ""
}

// NormalizedTilesPrefix returns the tiles prefix, preferring tiles_prefix
// over the legacy tile_prefix, always terminated by "/".
func (p PreviewPublishedPayload) NormalizedTilesPrefix() string {
	return EnsureTrailingSlash(strings.TrimSpace(p.rawTilesPrefix()))
}

// EnsureTrailingSlash appends "/" to a non-empty prefix that lacks one.
func EnsureTrailingSlash(prefix string) string {
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}

// UnprojectedPayload carries the body of an event type this deployment
// does not project. The raw JSON is kept unchanged.
type UnprojectedPayload struct {
	Type string
	Raw  json.RawMessage
}

func (p UnprojectedPayload) EventType() string { return p.Type }

// DecodePayload decodes and validates the payload of e according to its
// event type. Unknown event types yield an UnprojectedPayload and no error.
// Returned errors wrap *ValidationError.
func DecodePayload(e Event) (Payload, error) {
	switch e.EventType {
	case EventTypeCaseUpserted:
		var p CaseUpsertedPayload
		if err := decodeObject(e.Payload, &p); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		p.applyDefaults(e.OccurredAt)
		return p, nil

	case EventTypeSlideRegistered:
		var p SlideRegisteredPayload
		if err := decodeObject(e.Payload, &p); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return p, nil

	case EventTypePreviewPublished:
		var p PreviewPublishedPayload
		if err := decodeObject(e.Payload, &p); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return p, nil

	default:
		return UnprojectedPayload{Type: e.EventType, Raw: e.Payload}, nil
	}
}

func decodeObject(raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return NewValidationError("payload", "must be a JSON object")
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return NewValidationError(typeErr.Field, fmt.Sprintf("expected %s", typeErr.Type))
		}
		return NewValidationError("payload", "invalid JSON")
	}
	return nil
}
