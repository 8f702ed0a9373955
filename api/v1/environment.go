package v1

import (
	"net/http"

	"github.com/brms-lite/brms-lite/dto"
	"github.com/brms-lite/brms-lite/middleware"
	"github.com/brms-lite/brms-lite/services"
	"github.com/brms-lite/brms-lite/utils"
	"github.com/gin-gonic/gin"
)

// EnvironmentController handles environment listing and deployment
type EnvironmentController struct {
	deploymentService *services.DeploymentService
}

// NewEnvironmentController creates a new environment controller
func NewEnvironmentController() *EnvironmentController {
	return &EnvironmentController{
		deploymentService: services.NewDeploymentService(),
	}
}

// RegisterRoutes registers environment routes
func (c *EnvironmentController) RegisterRoutes(router *gin.RouterGroup) {
	environments := router.Group("/environments")
	{
		environments.GET("", c.ListEnvironments)
		environments.POST("/:id/deploy", c.Deploy)
	}
}

// ListEnvironments retrieves the project's environments with their
// currently deployed release
func (c *EnvironmentController) ListEnvironments(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)

	environments, err := c.deploymentService.ListEnvironments(actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]dto.EnvironmentResponse, 0, len(environments))
	for _, env := range environments {
		item := dto.EnvironmentResponse{
			ID:        env.ID,
			Key:       env.Key,
			Name:      env.Name,
			EnvType:   env.EnvType,
			SortOrder: env.SortOrder,
			UpdatedAt: env.UpdatedAt,
		}
		if env.CurrentRelease != nil {
			item.CurrentRelease = &dto.ReleaseRef{
				ID:      env.CurrentRelease.ID,
				Version: env.CurrentRelease.Version,
				Name:    env.CurrentRelease.Name,
			}
		}
		response = append(response, item)
	}
	ctx.JSON(http.StatusOK, response)
}

// Deploy assigns a release to the environment and records a workflow run
func (c *EnvironmentController) Deploy(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	environmentID := ctx.Param("id")

	var req dto.DeployRequest
	_ = ctx.ShouldBindJSON(&req)

	run, err := c.deploymentService.Deploy(environmentID, req.ReleaseID, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeployResponse{WorkflowRunID: run.ID})
}
