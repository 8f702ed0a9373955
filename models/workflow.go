package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowStatus represents the state of a deployment workflow run or job.
// The current deploy path is synchronous and always ends in completed, but
// the full machine (pending -> in_progress -> completed|failed) is modeled
// so an asynchronous executor can drive the same transitions later.
type WorkflowStatus string

const (
	WorkflowStatusPending    WorkflowStatus = "pending"
	WorkflowStatusInProgress WorkflowStatus = "in_progress"
	WorkflowStatusCompleted  WorkflowStatus = "completed"
	WorkflowStatusFailed     WorkflowStatus = "failed"
)

// DeploymentWorkflowRun records one deploy action (release -> environment).
type DeploymentWorkflowRun struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid"`
	ProjectID   string         `json:"projectId" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"not null"`
	ReleaseID   *string        `json:"releaseId" gorm:"type:uuid;default:null"`
	Status      WorkflowStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedBy   string         `json:"createdBy" gorm:"type:uuid;index"`
	CreatedAt   time.Time      `json:"createdAt"`
	CompletedAt *time.Time     `json:"completedAt" gorm:"default:null"`

	// Relations
	Jobs []DeploymentWorkflowJob `json:"jobs,omitempty" gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for DeploymentWorkflowRun model
func (DeploymentWorkflowRun) TableName() string {
	return "deployment_workflow_runs"
}

func (r *DeploymentWorkflowRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// DeploymentWorkflowJob is one unit of a run, scoped to a single environment.
type DeploymentWorkflowJob struct {
	ID            string         `json:"id" gorm:"primaryKey;type:uuid"`
	RunID         string         `json:"runId" gorm:"type:uuid;not null;index"`
	EnvironmentID string         `json:"environmentId" gorm:"type:uuid;not null;index"`
	Status        WorkflowStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	SortOrder     int            `json:"sortOrder" gorm:"default:0"`
	ReviewerID    *string        `json:"reviewerId" gorm:"type:uuid;default:null"`
	CreatedAt     time.Time      `json:"createdAt"`
	CompletedAt   *time.Time     `json:"completedAt" gorm:"default:null"`

	// Relations
	Run         DeploymentWorkflowRun `json:"run,omitempty" gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	Environment Environment           `json:"environment,omitempty" gorm:"foreignKey:EnvironmentID"`
}

// TableName sets the table name for DeploymentWorkflowJob model
func (DeploymentWorkflowJob) TableName() string {
	return "deployment_workflow_jobs"
}

func (j *DeploymentWorkflowJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}
