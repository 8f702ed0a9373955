package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Environment is a named deployment target within a project. It holds a weak
// reference to the release currently deployed to it; the reference is only
// ever overwritten by the deployment service.
type Environment struct {
	ID               string         `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID        string         `json:"projectId" gorm:"type:uuid;not null;index"`
	Key              string         `json:"key" gorm:"not null;index"`
	Name             string         `json:"name" gorm:"not null"`
	EnvType          string         `json:"envType" gorm:"default:null"`
	SortOrder        int            `json:"sortOrder" gorm:"default:0"`
	CurrentReleaseID *string        `json:"currentReleaseId" gorm:"type:uuid;default:null"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Project        Project  `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CurrentRelease *Release `json:"currentRelease,omitempty" gorm:"foreignKey:CurrentReleaseID"`
}

// TableName sets the table name for Environment model
func (Environment) TableName() string {
	return "environments"
}

func (e *Environment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
