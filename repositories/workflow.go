package repositories

import (
	"time"

	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"gorm.io/gorm"
)

// WorkflowRepository handles database operations for deployment workflow
// runs and jobs
type WorkflowRepository struct{}

// NewWorkflowRepository creates a new workflow repository instance
func NewWorkflowRepository() *WorkflowRepository {
	return &WorkflowRepository{}
}

// CreateRun inserts a workflow run inside the given transaction.
func (r *WorkflowRepository) CreateRun(tx *gorm.DB, run *models.DeploymentWorkflowRun) error {
	return tx.Create(run).Error
}

// CreateJob inserts a workflow job inside the given transaction.
func (r *WorkflowRepository) CreateJob(tx *gorm.DB, job *models.DeploymentWorkflowJob) error {
	return tx.Create(job).Error
}

// SetRunStatus transitions a run; completed and failed also stamp
// completed_at.
func (r *WorkflowRepository) SetRunStatus(tx *gorm.DB, runID string, status models.WorkflowStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == models.WorkflowStatusCompleted || status == models.WorkflowStatusFailed {
		now := time.Now()
		updates["completed_at"] = &now
	}
	return tx.Model(&models.DeploymentWorkflowRun{}).
		Where("id = ?", runID).
		Updates(updates).Error
}

// SetJobStatus transitions a job; completed and failed also stamp
// completed_at.
func (r *WorkflowRepository) SetJobStatus(tx *gorm.DB, jobID string, status models.WorkflowStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == models.WorkflowStatusCompleted || status == models.WorkflowStatusFailed {
		now := time.Now()
		updates["completed_at"] = &now
	}
	return tx.Model(&models.DeploymentWorkflowJob{}).
		Where("id = ?", jobID).
		Updates(updates).Error
}

// FindRun retrieves a workflow run by its ID
func (r *WorkflowRepository) FindRun(id string) (models.DeploymentWorkflowRun, error) {
	var run models.DeploymentWorkflowRun
	result := database.DB.First(&run, "id = ?", id)
	return run, result.Error
}

// ListRuns retrieves the workflow runs of a project, newest first.
func (r *WorkflowRepository) ListRuns(projectID string) ([]models.DeploymentWorkflowRun, error) {
	var runs []models.DeploymentWorkflowRun
	result := database.DB.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&runs)
	return runs, result.Error
}

// ListJobs retrieves the jobs of a run in workflow order.
func (r *WorkflowRepository) ListJobs(runID string) ([]models.DeploymentWorkflowJob, error) {
	var jobs []models.DeploymentWorkflowJob
	result := database.DB.Where("run_id = ?", runID).
		Preload("Environment").
		Order("sort_order ASC, created_at ASC").
		Find(&jobs)
	return jobs, result.Error
}
