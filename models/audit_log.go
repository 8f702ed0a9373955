package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLogEntry is an append-only record of a mutating or evaluated action.
// Entries are never updated or deleted by the application.
type AuditLogEntry struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid"`
	EntryType      string         `json:"type" gorm:"column:entry_type;not null;index"`
	Action         string         `json:"action" gorm:"not null;index"`
	RefID          string         `json:"refId" gorm:"type:uuid;default:null;index"`
	Data           datatypes.JSON `json:"data" gorm:"default:null"`
	ActorID        *string        `json:"actorId" gorm:"type:uuid;default:null"`
	ProjectID      *string        `json:"projectId" gorm:"type:uuid;default:null;index"`
	OrganisationID *string        `json:"organisationId" gorm:"type:uuid;default:null"`
	Origin         string         `json:"origin" gorm:"default:null"`
	CreatedAt      time.Time      `json:"createdAt" gorm:"index"`
}

// TableName sets the table name for AuditLogEntry model
func (AuditLogEntry) TableName() string {
	return "audit_log"
}

func (e *AuditLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
