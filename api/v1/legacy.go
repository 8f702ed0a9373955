package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/brms-lite/brms-lite/middleware"
	"github.com/brms-lite/brms-lite/services"
	"github.com/brms-lite/brms-lite/utils"
	"github.com/gin-gonic/gin"
)

// LegacyController exposes the previous schema generation's graph-store
// routes as thin aliases over the document services. The handlers call the
// services directly; no handler re-dispatches through another route.
type LegacyController struct {
	versionService     *services.VersionService
	publicationService *services.PublicationService
}

// NewLegacyController creates a new legacy controller
func NewLegacyController() *LegacyController {
	return &LegacyController{
		versionService:     services.NewVersionService(),
		publicationService: services.NewPublicationService(),
	}
}

// RegisterRoutes registers the legacy graph aliases
func (c *LegacyController) RegisterRoutes(router *gin.RouterGroup) {
	graphs := router.Group("/graphs")
	{
		graphs.GET("", c.ListGraphs)
		graphs.POST("/:id", c.SaveGraph)
		graphs.GET("/:id", c.GetGraph)
		graphs.GET("/:id/versions", c.ListGraphVersions)
		graphs.POST("/:id/publish", c.PublishGraph)
		graphs.GET("/:id/published", c.GetPublished)
		graphs.DELETE("/:id", c.DeleteGraph)
	}
}

// ListGraphs lists documents in the legacy row shape
func (c *LegacyController) ListGraphs(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)

	summaries, err := c.versionService.ListDocuments(actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	rows := make([]gin.H, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, gin.H{
			"id":             summary.Key,
			"name":           summary.Name,
			"updated_at":     summary.UpdatedAt,
			"latest_version": summary.LatestVersion,
		})
	}
	ctx.JSON(http.StatusOK, rows)
}

// legacySaveBody tolerates both {graph:{...}, comment} and a raw
// {nodes,edges} graph as the request body.
type legacySaveBody struct {
	Comment string `json:"comment"`
}

// SaveGraph creates a new version from a legacy-shaped body
func (c *LegacyController) SaveGraph(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("id")

	var raw json.RawMessage
	if err := ctx.ShouldBindJSON(&raw); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "graph is required"})
		return
	}

	model := utils.ExtractGraphForSave(raw)
	if model == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "graph is required"})
		return
	}

	var meta legacySaveBody
	_ = json.Unmarshal(raw, &meta)

	_, version, err := c.versionService.CreateVersion(key, model, meta.Comment, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "id": key, "version": version.Version})
}

// GetGraph returns the requested or resolved content; the legacy contract
// answers an unknown graph with an empty object rather than a 404
func (c *LegacyController) GetGraph(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("id")

	ordinal := 0
	if raw := ctx.Query("version"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			ordinal = n
		}
	}

	resolution, err := c.publicationService.ResolveContent(key, services.ResolveOptions{
		Ordinal: ordinal,
		EnvKey:  utils.ResolveEnv(ctx),
	}, actor)
	if err != nil {
		var notFound *utils.NotFoundError
		if errors.As(err, &notFound) {
			ctx.JSON(http.StatusOK, gin.H{})
			return
		}
		utils.RespondError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", resolution.Content)
}

// ListGraphVersions lists version history in the legacy row shape
func (c *LegacyController) ListGraphVersions(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("id")

	versions, err := c.versionService.ListVersions(key, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	rows := make([]gin.H, 0, len(versions))
	for _, version := range versions {
		rows = append(rows, gin.H{
			"version":    version.Version,
			"comment":    version.Comment,
			"created_at": version.CreatedAt,
		})
	}
	ctx.JSON(http.StatusOK, rows)
}

// legacyPublishBody names a version number to publish; latest when absent.
type legacyPublishBody struct {
	Version int `json:"version"`
}

// PublishGraph publishes by legacy version number
func (c *LegacyController) PublishGraph(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("id")
	env := utils.ResolveEnv(ctx)

	var body legacyPublishBody
	_ = ctx.ShouldBindJSON(&body)

	versionID := ""
	if body.Version > 0 {
		version, err := c.versionService.GetByOrdinal(key, body.Version, actor)
		if err != nil {
			utils.RespondError(ctx, err)
			return
		}
		versionID = version.ID
	}

	version, err := c.publicationService.Publish(key, versionID, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "id": key, "env": env, "version": version.Version})
}

// GetPublished reports the version pinned for the requested environment
func (c *LegacyController) GetPublished(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("id")
	env := utils.ResolveEnv(ctx)

	number, err := c.publicationService.PublishedVersionForEnvironment(key, env, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	var version interface{}
	if number > 0 {
		version = number
	}
	ctx.JSON(http.StatusOK, gin.H{"id": key, "env": env, "version": version})
}

// DeleteGraph soft-deletes the document behind the legacy alias
func (c *LegacyController) DeleteGraph(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("id")

	if _, err := c.versionService.DeleteDocument(key, actor); err != nil {
		utils.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true, "id": key})
}
