package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentVersion is an immutable snapshot of a document's content. Rows are
// never updated after insert; they are only removed by cascade when the
// owning document is purged.
//
// The unique (document_id, version) index is the backstop that turns a
// concurrent numbering race into a retryable conflict instead of a silent
// duplicate.
type DocumentVersion struct {
	ID         string         `json:"id" gorm:"primaryKey;type:uuid"`
	DocumentID string         `json:"documentId" gorm:"type:uuid;not null;uniqueIndex:idx_document_versions_number"`
	Version    int            `json:"version" gorm:"not null;uniqueIndex:idx_document_versions_number"`
	Content    datatypes.JSON `json:"content" gorm:"not null"`
	Comment    string         `json:"comment" gorm:"default:null"`
	CreatedBy  string         `json:"createdBy" gorm:"type:uuid;index"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"index"`

	// Relations
	Document Document `json:"document,omitempty" gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
	Creator  User     `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
}

// TableName sets the table name for DocumentVersion model
func (DocumentVersion) TableName() string {
	return "document_versions"
}

func (v *DocumentVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
