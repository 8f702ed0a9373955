package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Release is an immutable, per-project numbered bundle of the documents that
// were published at build time. Its files are frozen copies; later changes
// to the source documents never touch them.
//
// The partial unique index on (project, version) turns a concurrent
// numbering race into a retryable conflict while letting soft-deleted
// releases keep their number.
type Release struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID   string         `json:"projectId" gorm:"type:uuid;not null;index:idx_releases_project_version,unique,where:deleted_at IS NULL"`
	Version     int            `json:"version" gorm:"not null;index:idx_releases_project_version,unique,where:deleted_at IS NULL"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description" gorm:"default:null"`
	CreatedBy   string         `json:"createdBy" gorm:"type:uuid;index"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Project Project       `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Files   []ReleaseFile `json:"files,omitempty" gorm:"foreignKey:ReleaseID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for Release model
func (Release) TableName() string {
	return "releases"
}

func (r *Release) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReleaseFile is a frozen copy of one published document version, captured
// when the release was built. SourceVersionID is a weak back-reference kept
// for traceability only; the content column is authoritative.
type ReleaseFile struct {
	ID              string         `json:"id" gorm:"primaryKey;type:uuid"`
	ReleaseID       string         `json:"releaseId" gorm:"type:uuid;not null;index"`
	Name            string         `json:"name" gorm:"not null"`
	Path            string         `json:"path" gorm:"not null;index"`
	ContentType     string         `json:"contentType" gorm:"default:null"`
	Content         datatypes.JSON `json:"content" gorm:"not null"`
	SourceVersionID *string        `json:"sourceVersionId" gorm:"type:uuid;default:null"`
	CreatedAt       time.Time      `json:"createdAt"`

	// Relations
	Release Release `json:"release,omitempty" gorm:"foreignKey:ReleaseID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for ReleaseFile model
func (ReleaseFile) TableName() string {
	return "release_files"
}

func (f *ReleaseFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
