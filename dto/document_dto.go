package dto

import (
	"encoding/json"
	"time"
)

// CreateVersionRequest is the body for creating a new document version
type CreateVersionRequest struct {
	Content json.RawMessage `json:"content"`
	Comment string          `json:"comment"`
}

// CreateVersionResponse reports the ids of the written version
type CreateVersionResponse struct {
	DocumentID string `json:"documentId"`
	VersionID  string `json:"versionId"`
	Version    int    `json:"version"`
}

// PublishRequest optionally names the version to publish; latest when empty
type PublishRequest struct {
	VersionID string `json:"versionId"`
}

// PublishResponse reports the published pointer after the call
type PublishResponse struct {
	DocumentID string `json:"documentId"`
	VersionID  string `json:"versionId"`
	Version    int    `json:"version"`
}

// DocumentSummaryResponse is one row of the document listing
type DocumentSummaryResponse struct {
	ID            string     `json:"id"`
	Key           string     `json:"key"`
	Name          string     `json:"name"`
	ContentType   string     `json:"contentType"`
	VersionCount  int64      `json:"versionCount"`
	LatestVersion int        `json:"latestVersion"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// VersionResponse is one row of the version listing
type VersionResponse struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	Comment   string    `json:"comment"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// DeleteDocumentResponse confirms a soft delete
type DeleteDocumentResponse struct {
	DocumentID string `json:"documentId"`
}
