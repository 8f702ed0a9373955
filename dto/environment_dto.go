package dto

import "time"

// EnvironmentResponse is the structure for environment responses
type EnvironmentResponse struct {
	ID             string           `json:"id"`
	Key            string           `json:"key"`
	Name           string           `json:"name"`
	EnvType        string           `json:"envType"`
	SortOrder      int              `json:"sortOrder"`
	CurrentRelease *ReleaseRef      `json:"currentRelease,omitempty"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// ReleaseRef is a light reference to a deployed release
type ReleaseRef struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
	Name    string `json:"name"`
}

// DeployRequest names the release to deploy
type DeployRequest struct {
	ReleaseID string `json:"releaseId"`
}

// DeployResponse reports the workflow run recording the deployment
type DeployResponse struct {
	WorkflowRunID string `json:"workflowRunId"`
}
