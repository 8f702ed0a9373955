package services

import (
	"errors"
	"fmt"

	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"github.com/brms-lite/brms-lite/repositories"
	"github.com/brms-lite/brms-lite/utils"
	"gorm.io/gorm"
)

// DeploymentService assigns releases to environments, recording a workflow
// run/job pair for audit and status tracking.
type DeploymentService struct {
	environmentRepo *repositories.EnvironmentRepository
	releaseRepo     *repositories.ReleaseRepository
	workflowRepo    *repositories.WorkflowRepository
	auditService    *AuditService
}

// NewDeploymentService creates a new deployment service instance
func NewDeploymentService() *DeploymentService {
	return &DeploymentService{
		environmentRepo: repositories.NewEnvironmentRepository(),
		releaseRepo:     repositories.NewReleaseRepository(),
		workflowRepo:    repositories.NewWorkflowRepository(),
		auditService:    NewAuditService(),
	}
}

// Deploy points the environment at the release and records a completed
// workflow run with a single job, all in one transaction. The deployment is
// synchronous and instantaneous today; the run/job rows walk the full
// status machine so an asynchronous executor can drive the same
// transitions later without changing callers.
func (s *DeploymentService) Deploy(environmentID, releaseID string, actor models.ActorContext) (models.DeploymentWorkflowRun, error) {
	if releaseID == "" {
		return models.DeploymentWorkflowRun{}, utils.NewValidationError("releaseId", "releaseId is required")
	}

	environment, err := s.environmentRepo.FindByID(environmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DeploymentWorkflowRun{}, &utils.NotFoundError{Resource: "environment", Key: environmentID}
		}
		return models.DeploymentWorkflowRun{}, utils.WrapStorage("environment lookup", "environment", err)
	}

	release, err := s.releaseRepo.FindByID(releaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DeploymentWorkflowRun{}, &utils.NotFoundError{Resource: "release", Key: releaseID}
		}
		return models.DeploymentWorkflowRun{}, utils.WrapStorage("release lookup", "release", err)
	}
	if release.ProjectID != environment.ProjectID {
		return models.DeploymentWorkflowRun{}, &utils.NotFoundError{Resource: "release", Key: releaseID}
	}

	var run models.DeploymentWorkflowRun
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		run = models.DeploymentWorkflowRun{
			ProjectID: environment.ProjectID,
			Name:      fmt.Sprintf("deploy-%s", environment.Key),
			ReleaseID: &release.ID,
			Status:    models.WorkflowStatusPending,
			CreatedBy: actor.UserID,
		}
		if txErr := s.workflowRepo.CreateRun(tx, &run); txErr != nil {
			return txErr
		}

		job := models.DeploymentWorkflowJob{
			RunID:         run.ID,
			EnvironmentID: environment.ID,
			Status:        models.WorkflowStatusPending,
			SortOrder:     environment.SortOrder,
		}
		if txErr := s.workflowRepo.CreateJob(tx, &job); txErr != nil {
			return txErr
		}

		if txErr := s.workflowRepo.SetRunStatus(tx, run.ID, models.WorkflowStatusInProgress); txErr != nil {
			return txErr
		}
		if txErr := s.workflowRepo.SetJobStatus(tx, job.ID, models.WorkflowStatusCompleted); txErr != nil {
			return txErr
		}
		if txErr := s.environmentRepo.SetCurrentRelease(tx, environment.ID, release.ID); txErr != nil {
			return txErr
		}
		return s.workflowRepo.SetRunStatus(tx, run.ID, models.WorkflowStatusCompleted)
	})
	if err != nil {
		return models.DeploymentWorkflowRun{}, utils.WrapStorage("deploy", "deployment", err)
	}

	run, err = s.workflowRepo.FindRun(run.ID)
	if err != nil {
		return models.DeploymentWorkflowRun{}, utils.WrapStorage("deploy", "workflow run", err)
	}

	s.auditService.Record("environment", "deploy", environment.ID, map[string]interface{}{
		"environmentKey": environment.Key,
		"releaseId":      release.ID,
		"releaseVersion": release.Version,
		"workflowRunId":  run.ID,
	}, actor)

	return run, nil
}

// ListEnvironments returns the project's environments in workflow order,
// each with its currently deployed release.
func (s *DeploymentService) ListEnvironments(actor models.ActorContext) ([]models.Environment, error) {
	environments, err := s.environmentRepo.ListByProject(actor.ProjectID)
	if err != nil {
		return nil, utils.WrapStorage("environment list", "environment", err)
	}
	return environments, nil
}

// ListWorkflowRuns returns the project's deployment history, newest first.
func (s *DeploymentService) ListWorkflowRuns(actor models.ActorContext) ([]models.DeploymentWorkflowRun, error) {
	runs, err := s.workflowRepo.ListRuns(actor.ProjectID)
	if err != nil {
		return nil, utils.WrapStorage("workflow list", "workflow run", err)
	}
	return runs, nil
}

// ListWorkflowJobs returns the jobs of one run.
func (s *DeploymentService) ListWorkflowJobs(runID string, actor models.ActorContext) ([]models.DeploymentWorkflowJob, error) {
	run, err := s.workflowRepo.FindRun(runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "workflow run", Key: runID}
		}
		return nil, utils.WrapStorage("workflow lookup", "workflow run", err)
	}
	if run.ProjectID != actor.ProjectID {
		return nil, &utils.NotFoundError{Resource: "workflow run", Key: runID}
	}

	jobs, err := s.workflowRepo.ListJobs(run.ID)
	if err != nil {
		return nil, utils.WrapStorage("workflow jobs", "workflow job", err)
	}
	return jobs, nil
}
