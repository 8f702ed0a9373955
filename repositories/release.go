package repositories

import (
	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"gorm.io/gorm"
)

// ReleaseRepository handles database operations for releases
type ReleaseRepository struct{}

// NewReleaseRepository creates a new release repository instance
func NewReleaseRepository() *ReleaseRepository {
	return &ReleaseRepository{}
}

// NextVersion computes the next per-project release number among non-deleted
// releases. Must run inside the caller's transaction.
func (r *ReleaseRepository) NextVersion(tx *gorm.DB, projectID string) (int, error) {
	var next int
	err := tx.Model(&models.Release{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(version), 0) + 1").
		Scan(&next).Error
	return next, err
}

// Insert writes a release row inside the given transaction.
func (r *ReleaseRepository) Insert(tx *gorm.DB, release *models.Release) error {
	return tx.Create(release).Error
}

// InsertFile writes a frozen release file inside the given transaction.
func (r *ReleaseRepository) InsertFile(tx *gorm.DB, file *models.ReleaseFile) error {
	return tx.Create(file).Error
}

// FindByID retrieves a release by its ID
func (r *ReleaseRepository) FindByID(id string) (models.Release, error) {
	var release models.Release
	result := database.DB.First(&release, "id = ?", id)
	return release, result.Error
}

// ReleaseSummary is a list row annotated with its file count.
type ReleaseSummary struct {
	models.Release
	FileCount int64 `json:"fileCount"`
}

// ListByProject retrieves all releases of a project, newest first, with
// file counts.
func (r *ReleaseRepository) ListByProject(projectID string) ([]ReleaseSummary, error) {
	var summaries []ReleaseSummary
	result := database.DB.Model(&models.Release{}).
		Select(`releases.*,
			(SELECT COUNT(*) FROM release_files f WHERE f.release_id = releases.id) AS file_count`).
		Where("releases.project_id = ?", projectID).
		Order("releases.version DESC").
		Find(&summaries)
	return summaries, result.Error
}

// ListFiles retrieves the frozen files of a release.
func (r *ReleaseRepository) ListFiles(releaseID string) ([]models.ReleaseFile, error) {
	var files []models.ReleaseFile
	result := database.DB.Where("release_id = ?", releaseID).
		Order("path ASC").
		Find(&files)
	return files, result.Error
}

// FindFileByPath retrieves the release file whose path matches a document.
func (r *ReleaseRepository) FindFileByPath(releaseID, path string) (models.ReleaseFile, error) {
	var file models.ReleaseFile
	result := database.DB.Where("release_id = ? AND path = ?", releaseID, path).First(&file)
	return file, result.Error
}
