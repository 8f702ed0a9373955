package v1

import (
	"net/http"

	"github.com/brms-lite/brms-lite/dto"
	"github.com/brms-lite/brms-lite/middleware"
	"github.com/brms-lite/brms-lite/services"
	"github.com/brms-lite/brms-lite/utils"
	"github.com/gin-gonic/gin"
)

// ReleaseController handles release bundling endpoints
type ReleaseController struct {
	releaseService *services.ReleaseService
}

// NewReleaseController creates a new release controller
func NewReleaseController() *ReleaseController {
	return &ReleaseController{
		releaseService: services.NewReleaseService(),
	}
}

// RegisterRoutes registers release routes
func (c *ReleaseController) RegisterRoutes(router *gin.RouterGroup) {
	releases := router.Group("/releases")
	{
		releases.GET("", c.ListReleases)
		releases.POST("", c.CreateRelease)
		releases.GET("/:id/files", c.ListReleaseFiles)
	}
}

// ListReleases retrieves the project's releases with file counts
func (c *ReleaseController) ListReleases(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)

	summaries, err := c.releaseService.ListReleases(actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]dto.ReleaseSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, dto.ReleaseSummaryResponse{
			ID:          summary.ID,
			Version:     summary.Version,
			Name:        summary.Name,
			Description: summary.Description,
			FileCount:   summary.FileCount,
			CreatedAt:   summary.CreatedAt,
		})
	}
	ctx.JSON(http.StatusOK, response)
}

// CreateRelease snapshots all currently published documents into a new
// immutable bundle
func (c *ReleaseController) CreateRelease(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)

	var req dto.ReleaseRequest
	_ = ctx.ShouldBindJSON(&req)

	release, err := c.releaseService.CreateRelease(req.Name, req.Description, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ReleaseResponse{
		ReleaseID: release.ID,
		Version:   release.Version,
	})
}

// ListReleaseFiles retrieves the frozen files of a release
func (c *ReleaseController) ListReleaseFiles(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	releaseID := ctx.Param("id")

	files, err := c.releaseService.ListReleaseFiles(releaseID, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]dto.ReleaseFileResponse, 0, len(files))
	for _, file := range files {
		response = append(response, dto.ReleaseFileResponse{
			ID:              file.ID,
			Name:            file.Name,
			Path:            file.Path,
			ContentType:     file.ContentType,
			SourceVersionID: file.SourceVersionID,
			CreatedAt:       file.CreatedAt,
		})
	}
	ctx.JSON(http.StatusOK, response)
}
