package v1

import (
	"net/http"

	"github.com/brms-lite/brms-lite/dto"
	"github.com/brms-lite/brms-lite/middleware"
	"github.com/brms-lite/brms-lite/services"
	"github.com/brms-lite/brms-lite/utils"
	"github.com/gin-gonic/gin"
)

// WorkflowController exposes deployment history
type WorkflowController struct {
	deploymentService *services.DeploymentService
}

// NewWorkflowController creates a new workflow controller
func NewWorkflowController() *WorkflowController {
	return &WorkflowController{
		deploymentService: services.NewDeploymentService(),
	}
}

// RegisterRoutes registers workflow routes
func (c *WorkflowController) RegisterRoutes(router *gin.RouterGroup) {
	workflows := router.Group("/workflows")
	{
		workflows.GET("", c.ListRuns)
		workflows.GET("/:id/jobs", c.ListJobs)
	}
}

// ListRuns retrieves the project's deployment runs, newest first
func (c *WorkflowController) ListRuns(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)

	runs, err := c.deploymentService.ListWorkflowRuns(actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]dto.WorkflowRunResponse, 0, len(runs))
	for _, run := range runs {
		response = append(response, dto.WorkflowRunResponse{
			ID:          run.ID,
			Name:        run.Name,
			ReleaseID:   run.ReleaseID,
			Status:      string(run.Status),
			CreatedAt:   run.CreatedAt,
			CompletedAt: run.CompletedAt,
		})
	}
	ctx.JSON(http.StatusOK, response)
}

// ListJobs retrieves the jobs of one deployment run
func (c *WorkflowController) ListJobs(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	runID := ctx.Param("id")

	jobs, err := c.deploymentService.ListWorkflowJobs(runID, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]dto.WorkflowJobResponse, 0, len(jobs))
	for _, job := range jobs {
		response = append(response, dto.WorkflowJobResponse{
			ID:             job.ID,
			EnvironmentID:  job.EnvironmentID,
			EnvironmentKey: job.Environment.Key,
			Status:         string(job.Status),
			SortOrder:      job.SortOrder,
			ReviewerID:     job.ReviewerID,
			CompletedAt:    job.CompletedAt,
		})
	}
	ctx.JSON(http.StatusOK, response)
}
