package v1

import (
	"net/http"
	"strconv"

	"github.com/brms-lite/brms-lite/dto"
	"github.com/brms-lite/brms-lite/middleware"
	"github.com/brms-lite/brms-lite/services"
	"github.com/brms-lite/brms-lite/utils"
	"github.com/gin-gonic/gin"
)

// DocumentController handles document versioning and publication endpoints
type DocumentController struct {
	versionService     *services.VersionService
	publicationService *services.PublicationService
}

// NewDocumentController creates a new document controller
func NewDocumentController() *DocumentController {
	return &DocumentController{
		versionService:     services.NewVersionService(),
		publicationService: services.NewPublicationService(),
	}
}

// RegisterRoutes registers document routes
func (c *DocumentController) RegisterRoutes(router *gin.RouterGroup) {
	documents := router.Group("/documents")
	{
		documents.GET("", c.ListDocuments)
		documents.GET("/:key", c.GetDocument)
		documents.POST("/:key/versions", c.CreateVersion)
		documents.POST("/:key/publish", c.Publish)
		documents.GET("/:key/versions", c.ListVersions)
		documents.DELETE("/:key", c.DeleteDocument)
	}
}

// ListDocuments retrieves all active documents of the actor's project
func (c *DocumentController) ListDocuments(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)

	summaries, err := c.versionService.ListDocuments(actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]dto.DocumentSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, dto.DocumentSummaryResponse{
			ID:            summary.ID,
			Key:           summary.Key,
			Name:          summary.Name,
			ContentType:   summary.ContentType,
			VersionCount:  summary.VersionCount,
			LatestVersion: summary.LatestVersion,
			Published:     summary.PublishedVersionID != nil,
			PublishedAt:   summary.PublishedAt,
			UpdatedAt:     summary.UpdatedAt,
		})
	}
	ctx.JSON(http.StatusOK, response)
}

// GetDocument resolves and returns the content for a document key. The
// precedence is identical to the evaluation path: explicit version id,
// explicit ordinal, deployed environment release, published pointer,
// latest.
func (c *DocumentController) GetDocument(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("key")

	versionID, ordinal := utils.ParseVersionSelector(ctx.Query("version"))
	if raw := ctx.Query("versionNumber"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			versionID, ordinal = "", n
		}
	}

	resolution, err := c.publicationService.ResolveContent(key, services.ResolveOptions{
		VersionID: versionID,
		Ordinal:   ordinal,
		EnvKey:    utils.ResolveEnv(ctx),
	}, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.Header("X-Resolved-Source", resolution.Source)
	if resolution.VersionID != nil {
		ctx.Header("X-Resolved-Version", *resolution.VersionID)
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", resolution.Content)
}

// CreateVersion writes a new immutable version for the document key,
// creating the document on first write
func (c *DocumentController) CreateVersion(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("key")

	var req dto.CreateVersionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.RespondError(ctx, utils.NewValidationError("content", "body must be a JSON object with a content field"))
		return
	}

	document, version, err := c.versionService.CreateVersion(key, req.Content, req.Comment, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CreateVersionResponse{
		DocumentID: document.ID,
		VersionID:  version.ID,
		Version:    version.Version,
	})
}

// Publish marks a version as the document's canonical content; latest when
// the body names none
func (c *DocumentController) Publish(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("key")

	var req dto.PublishRequest
	_ = ctx.ShouldBindJSON(&req)

	version, err := c.publicationService.Publish(key, req.VersionID, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.PublishResponse{
		DocumentID: version.DocumentID,
		VersionID:  version.ID,
		Version:    version.Version,
	})
}

// ListVersions retrieves the version history, most recent first
func (c *DocumentController) ListVersions(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("key")

	versions, err := c.versionService.ListVersions(key, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]dto.VersionResponse, 0, len(versions))
	for _, version := range versions {
		author := version.Creator.Name
		if author == "" {
			author = version.Creator.Email
		}
		response = append(response, dto.VersionResponse{
			ID:        version.ID,
			Version:   version.Version,
			Comment:   version.Comment,
			Author:    author,
			CreatedAt: version.CreatedAt,
		})
	}
	ctx.JSON(http.StatusOK, response)
}

// DeleteDocument soft-deletes the document; history stays on disk
func (c *DocumentController) DeleteDocument(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("key")

	document, err := c.versionService.DeleteDocument(key, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeleteDocumentResponse{DocumentID: document.ID})
}
