package repositories

import (
	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"gorm.io/gorm"
)

// VersionRepository handles database operations for document versions
type VersionRepository struct{}

// NewVersionRepository creates a new version repository instance
func NewVersionRepository() *VersionRepository {
	return &VersionRepository{}
}

// NextVersion computes MAX(version)+1 for a document. Must run inside the
// same transaction as the subsequent insert; the unique (document_id,
// version) index converts a lost race into a retryable conflict.
func (r *VersionRepository) NextVersion(tx *gorm.DB, documentID string) (int, error) {
	var next int
	err := tx.Model(&models.DocumentVersion{}).
		Where("document_id = ?", documentID).
		Select("COALESCE(MAX(version), 0) + 1").
		Scan(&next).Error
	return next, err
}

// Insert writes a version row inside the given transaction.
func (r *VersionRepository) Insert(tx *gorm.DB, version *models.DocumentVersion) error {
	return tx.Create(version).Error
}

// FindByID retrieves a version by its ID
func (r *VersionRepository) FindByID(id string) (models.DocumentVersion, error) {
	var version models.DocumentVersion
	result := database.DB.First(&version, "id = ?", id)
	return version, result.Error
}

// FindForDocument retrieves a version by ID, scoped to one document. A
// version id belonging to another document is not found.
func (r *VersionRepository) FindForDocument(documentID, versionID string) (models.DocumentVersion, error) {
	var version models.DocumentVersion
	result := database.DB.Where("document_id = ? AND id = ?", documentID, versionID).First(&version)
	return version, result.Error
}

// Latest retrieves the most recently created version of a document.
func (r *VersionRepository) Latest(documentID string) (models.DocumentVersion, error) {
	var version models.DocumentVersion
	result := database.DB.Where("document_id = ?", documentID).
		Order("created_at DESC, version DESC").
		First(&version)
	return version, result.Error
}

// ByOrdinal retrieves the n-th version counting from the earliest ever
// created (ordinal 1 = oldest surviving row). Deliberately ordinal-by-offset
// rather than a version-number lookup: callers asking for ordinal 1 always
// get the oldest surviving version.
func (r *VersionRepository) ByOrdinal(documentID string, n int) (models.DocumentVersion, error) {
	var version models.DocumentVersion
	result := database.DB.Where("document_id = ?", documentID).
		Order("created_at ASC, version ASC").
		Offset(n - 1).
		First(&version)
	return version, result.Error
}

// List retrieves all versions of a document, most recent first, with the
// creator preloaded for display fields.
func (r *VersionRepository) List(documentID string) ([]models.DocumentVersion, error) {
	var versions []models.DocumentVersion
	result := database.DB.Where("document_id = ?", documentID).
		Preload("Creator").
		Order("created_at DESC, version DESC").
		Find(&versions)
	return versions, result.Error
}
