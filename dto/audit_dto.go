package dto

import (
	"encoding/json"
	"time"
)

// AuditEntryResponse is one row of the audit trail
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Action    string          `json:"action"`
	RefID     string          `json:"refId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	ActorID   *string         `json:"actorId,omitempty"`
	Origin    string          `json:"origin,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}
