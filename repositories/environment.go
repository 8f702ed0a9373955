package repositories

import (
	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"gorm.io/gorm"
)

// EnvironmentRepository handles database operations for environments
type EnvironmentRepository struct{}

// NewEnvironmentRepository creates a new environment repository instance
func NewEnvironmentRepository() *EnvironmentRepository {
	return &EnvironmentRepository{}
}

// FindByID retrieves an environment by its ID
func (r *EnvironmentRepository) FindByID(id string) (models.Environment, error) {
	var environment models.Environment
	result := database.DB.First(&environment, "id = ?", id)
	return environment, result.Error
}

// FindByKey retrieves an environment of a project by its key (dev, prod, ...)
func (r *EnvironmentRepository) FindByKey(projectID, key string) (models.Environment, error) {
	var environment models.Environment
	result := database.DB.Where("project_id = ? AND key = ?", projectID, key).First(&environment)
	return environment, result.Error
}

// ListByProject retrieves all environments for a project in workflow order,
// with the currently deployed release preloaded.
func (r *EnvironmentRepository) ListByProject(projectID string) ([]models.Environment, error) {
	var environments []models.Environment
	result := database.DB.Where("project_id = ?", projectID).
		Preload("CurrentRelease").
		Order("sort_order ASC, key ASC").
		Find(&environments)
	return environments, result.Error
}

// SetCurrentRelease overwrites the environment's release reference inside
// the caller's transaction.
func (r *EnvironmentRepository) SetCurrentRelease(tx *gorm.DB, environmentID, releaseID string) error {
	return tx.Model(&models.Environment{}).
		Where("id = ?", environmentID).
		Update("current_release_id", releaseID).Error
}
