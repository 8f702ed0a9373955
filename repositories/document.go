package repositories

import (
	"errors"
	"time"

	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"gorm.io/gorm"
)

// DocumentRepository handles database operations for documents
type DocumentRepository struct{}

// NewDocumentRepository creates a new document repository instance
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{}
}

// FindByKey retrieves the active document for a (project, key) pair.
// Soft-deleted rows are filtered by gorm's DeletedAt handling.
func (r *DocumentRepository) FindByKey(projectID, key string) (models.Document, error) {
	var document models.Document
	result := database.DB.Where("project_id = ? AND key = ?", projectID, key).First(&document)
	return document, result.Error
}

// FindByID retrieves a document by its ID
func (r *DocumentRepository) FindByID(id string) (models.Document, error) {
	var document models.Document
	result := database.DB.First(&document, "id = ?", id)
	return document, result.Error
}

// DocumentSummary is a list row annotated with version bookkeeping.
type DocumentSummary struct {
	models.Document
	VersionCount  int64 `json:"versionCount"`
	LatestVersion int   `json:"latestVersion"`
}

// ListByProject retrieves all active documents of a project with their
// version counts, most recently updated first.
func (r *DocumentRepository) ListByProject(projectID string) ([]DocumentSummary, error) {
	var summaries []DocumentSummary
	result := database.DB.Model(&models.Document{}).
		Select(`documents.*,
			(SELECT COUNT(*) FROM document_versions v WHERE v.document_id = documents.id) AS version_count,
			(SELECT COALESCE(MAX(version), 0) FROM document_versions v WHERE v.document_id = documents.id) AS latest_version`).
		Where("documents.project_id = ?", projectID).
		Order("documents.updated_at DESC, documents.key ASC").
		Find(&summaries)
	return summaries, result.Error
}

// ListKeys returns the keys of all active documents in a project. Used to
// enrich not-found responses.
func (r *DocumentRepository) ListKeys(projectID string) ([]string, error) {
	var keys []string
	result := database.DB.Model(&models.Document{}).
		Where("project_id = ?", projectID).
		Order("key ASC").
		Pluck("key", &keys)
	return keys, result.Error
}

// FindOrCreate returns the active document for (project, key), creating it
// when absent. Must run inside the caller's transaction so the at-most-one
// active document invariant holds under concurrent writers.
func (r *DocumentRepository) FindOrCreate(tx *gorm.DB, projectID, key string) (models.Document, error) {
	var document models.Document
	err := tx.Where("project_id = ? AND key = ?", projectID, key).First(&document).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		document = models.Document{
			ProjectID: projectID,
			Key:       key,
			Name:      key,
		}
		err = tx.Create(&document).Error
	}
	return document, err
}

// Touch bumps the document's updated_at inside the given transaction.
func (r *DocumentRepository) Touch(tx *gorm.DB, id string) error {
	return tx.Model(&models.Document{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// SetPublished atomically updates the published pointer, timestamp and
// publisher.
func (r *DocumentRepository) SetPublished(tx *gorm.DB, documentID, versionID, publisherID string) error {
	now := time.Now()
	return tx.Model(&models.Document{}).
		Where("id = ?", documentID).
		Updates(map[string]interface{}{
			"published_version_id": versionID,
			"published_at":         &now,
			"published_by":         publisherID,
		}).Error
}

// SoftDelete marks the document deleted. Versions stay on disk but become
// unreachable because every lookup goes through the active-document filter.
func (r *DocumentRepository) SoftDelete(id string) error {
	result := database.DB.Delete(&models.Document{}, "id = ?", id)
	return result.Error
}

// FindPublishedByProject returns all active documents of a project that have
// a published pointer set.
func (r *DocumentRepository) FindPublishedByProject(tx *gorm.DB, projectID string) ([]models.Document, error) {
	var documents []models.Document
	result := tx.Where("project_id = ? AND published_version_id IS NOT NULL", projectID).
		Order("key ASC").
		Find(&documents)
	return documents, result.Error
}
