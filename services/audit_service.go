package services

import (
	"encoding/json"
	"log"

	"github.com/brms-lite/brms-lite/models"
	"github.com/brms-lite/brms-lite/repositories"
	"github.com/brms-lite/brms-lite/utils"
	"gorm.io/datatypes"
)

// AuditService appends entries to the audit log. Writes are best-effort:
// the business mutation is authoritative and an audit failure must never
// fail or roll it back.
type AuditService struct {
	auditRepo *repositories.AuditRepository
}

// NewAuditService creates a new audit service instance
func NewAuditService() *AuditService {
	return &AuditService{
		auditRepo: repositories.NewAuditRepository(),
	}
}

// Record appends an entry attributed to the actor. Failures are logged
// locally and swallowed.
func (s *AuditService) Record(entryType, action, refID string, data interface{}, actor models.ActorContext) {
	var payload datatypes.JSON
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Printf("audit: failed to encode data for %s/%s: %v", entryType, action, err)
		} else {
			payload = datatypes.JSON(raw)
		}
	}

	entry := models.AuditLogEntry{
		EntryType: entryType,
		Action:    action,
		RefID:     refID,
		Data:      payload,
		Origin:    actor.Origin,
	}
	if actor.UserID != "" {
		entry.ActorID = &actor.UserID
	}
	if actor.ProjectID != "" {
		entry.ProjectID = &actor.ProjectID
	}
	if actor.OrganisationID != "" {
		entry.OrganisationID = &actor.OrganisationID
	}

	if err := s.auditRepo.Insert(&entry); err != nil {
		log.Printf("audit: failed to record %s/%s: %v", entryType, action, err)
	}
}

// List retrieves audit entries for the actor's project with parameterized
// filters.
func (s *AuditService) List(actor models.ActorContext, filter repositories.AuditFilter) ([]models.AuditLogEntry, error) {
	entries, err := s.auditRepo.List(actor.ProjectID, filter)
	if err != nil {
		return nil, utils.WrapStorage("audit list", "audit log", err)
	}
	return entries, nil
}
