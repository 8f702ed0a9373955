package repositories

import (
	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
)

// AuditRepository handles database operations for the append-only audit log
type AuditRepository struct{}

// NewAuditRepository creates a new audit repository instance
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Insert appends an audit entry. There are no update or delete operations
// on this table.
func (r *AuditRepository) Insert(entry *models.AuditLogEntry) error {
	return database.DB.Create(entry).Error
}

// AuditFilter narrows the audit listing. All filters are optional and bound
// as query parameters, never concatenated into SQL.
type AuditFilter struct {
	EntryType string
	Action    string
	Limit     int
	Offset    int
}

// List retrieves audit entries for a project, newest first.
func (r *AuditRepository) List(projectID string, filter AuditFilter) ([]models.AuditLogEntry, error) {
	query := database.DB.Where("project_id = ?", projectID)
	if filter.EntryType != "" {
		query = query.Where("entry_type = ?", filter.EntryType)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	var entries []models.AuditLogEntry
	result := query.Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&entries)
	return entries, result.Error
}
