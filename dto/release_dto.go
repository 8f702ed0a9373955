package dto

import "time"

// ReleaseRequest is the body for building a release
type ReleaseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ReleaseResponse reports the built release
type ReleaseResponse struct {
	ReleaseID string `json:"releaseId"`
	Version   int    `json:"version"`
}

// ReleaseSummaryResponse is one row of the release listing
type ReleaseSummaryResponse struct {
	ID          string    `json:"id"`
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FileCount   int64     `json:"fileCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReleaseFileResponse is one frozen file of a release. Content is omitted
// from listings; the resolution endpoints serve it.
type ReleaseFileResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Path            string    `json:"path"`
	ContentType     string    `json:"contentType"`
	SourceVersionID *string   `json:"sourceVersionId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
