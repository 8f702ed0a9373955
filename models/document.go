package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultContentType tags decision documents stored as JDM rule graphs.
const DefaultContentType = "application/vnd.gorules.decision"

// Document is a named, versioned decision artifact. The published pointer is
// a weak reference into the document's own version history; it marks the
// environment-agnostic canonical version and owns nothing.
//
// At most one active (non soft-deleted) document exists per (project, key).
// The partial unique index backstops the find-or-create in the version-write
// transaction; a lost first-write race surfaces as a duplicate key and is
// retried.
type Document struct {
	ID                 string         `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID          string         `json:"projectId" gorm:"type:uuid;not null;index:idx_documents_project_key,unique,where:deleted_at IS NULL"`
	Key                string         `json:"key" gorm:"not null;index:idx_documents_project_key,unique,where:deleted_at IS NULL"`
	Name               string         `json:"name" gorm:"not null"`
	ContentType        string         `json:"contentType" gorm:"default:null"`
	PublishedVersionID *string        `json:"publishedVersionId" gorm:"type:uuid;default:null"`
	PublishedAt        *time.Time     `json:"publishedAt" gorm:"default:null"`
	PublishedBy        *string        `json:"publishedBy" gorm:"type:uuid;default:null"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Project  Project           `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Versions []DocumentVersion `json:"versions,omitempty" gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for Document model
func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.ContentType == "" {
		d.ContentType = DefaultContentType
	}
	return nil
}
