package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus is the lifecycle status of a case.
type CaseStatus string

const (
	CaseStatusActive   CaseStatus = "active"
	CaseStatusArchived CaseStatus = "archived"
	CaseStatusDeleted  CaseStatus = "deleted"
)

func (s CaseStatus) String() string { return string(s) }

func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusActive, CaseStatusArchived, CaseStatusDeleted:
		return true
	}
	return false
}

// EventRef points at the last event that touched a read model row.
type EventRef struct {
	LastEventID    uuid.UUID
	LastOccurredAt time.Time
}

// Case is the derived read model of a pathology case.
type Case struct {
	CaseID     string
	Title      string
	PatientRef string
	Status     CaseStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
	EventRef
}

// Slide is the derived read model of a scanned slide. CaseID is nil until
// the owning case is known.
type Slide struct {
	SlideID         string
	CaseID          *string
	Filename        string
	Width           int64
	Height          int64
	MicronsPerPixel float64
	Scanner         *string
	HasPreview      bool

	// Correlation with an external LIS, maintained by the matching workflow.
	ExternalCaseID     *string
	ExternalCaseBase   *string
	ExternalSlideLabel *string
	ConfirmedCaseLink  bool

	CreatedAt time.Time
	UpdatedAt time.Time
	EventRef
}

// PreviewAsset describes the published preview pyramid of one slide.
// PreviewWidth/PreviewHeight may differ from the source slide after rebase.
type PreviewAsset struct {
	SlideID       string
	CaseID        string
	Bucket        string
	Region        string
	Endpoint      *string
	BasePrefix    string
	ThumbKey      string
	ManifestKey   string
	TilesPrefix   string
	MaxLevel      int
	TileSize      int
	Format        string
	PreviewWidth  *int64
	PreviewHeight *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	EventRef
}
