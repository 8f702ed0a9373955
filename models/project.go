package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is the top-level scope for documents, releases and environments
type Project struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid"`
	Name           string         `json:"name" gorm:"not null"`
	Description    string         `json:"description" gorm:"default:null"`
	OrganisationID string         `json:"organisationId" gorm:"type:uuid;index"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Documents    []Document    `json:"documents,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Environments []Environment `json:"environments,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Releases     []Release     `json:"releases,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for Project model
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns a UUID so the model works on both postgres and sqlite
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
