package dto

import "time"

// WorkflowRunResponse is one row of the deployment history
type WorkflowRunResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ReleaseID   *string    `json:"releaseId,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// WorkflowJobResponse is one job of a run
type WorkflowJobResponse struct {
	ID             string     `json:"id"`
	EnvironmentID  string     `json:"environmentId"`
	EnvironmentKey string     `json:"environmentKey,omitempty"`
	Status         string     `json:"status"`
	SortOrder      int        `json:"sortOrder"`
	ReviewerID     *string    `json:"reviewerId,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}
