package v1

import (
	"net/http"

	"github.com/brms-lite/brms-lite/dto"
	"github.com/brms-lite/brms-lite/lib/engine"
	"github.com/brms-lite/brms-lite/middleware"
	"github.com/brms-lite/brms-lite/services"
	"github.com/brms-lite/brms-lite/utils"
	"github.com/gin-gonic/gin"
)

// defaultDocumentKey serves the bare /simulate compatibility route.
const defaultDocumentKey = "default"

// SimulateController handles evaluation requests
type SimulateController struct {
	simulationService *services.SimulationService
}

// NewSimulateController creates a new simulate controller
func NewSimulateController(decisionEngine engine.Engine) *SimulateController {
	return &SimulateController{
		simulationService: services.NewSimulationService(decisionEngine),
	}
}

// RegisterRoutes registers simulation routes
func (c *SimulateController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/simulate/:key", c.Simulate)
	router.POST("/simulate", c.Simulate)
}

// Simulate resolves content for the document key (an inline graph takes
// absolute precedence and is never persisted) and evaluates it against the
// request payload
func (c *SimulateController) Simulate(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	key := ctx.Param("key")
	if key == "" {
		key = defaultDocumentKey
	}

	var body dto.SimulateRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		utils.RespondError(ctx, utils.NewValidationError("payload", "body must be a JSON object"))
		return
	}

	versionID, ordinal := utils.ParseVersionSelector(ctx.Query("version"))

	result, err := c.simulationService.Simulate(ctx.Request.Context(), key, services.SimulateRequest{
		InlineGraph: body.Graph,
		Payload:     body.Payload,
		VersionID:   versionID,
		Ordinal:     ordinal,
		EnvKey:      utils.ResolveEnv(ctx),
	}, actor)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"id":          result.Key,
		"env":         result.Env,
		"usedVersion": result.UsedVersionID,
		"source":      result.Source,
		"performance": result.Performance,
		"result":      result.Result,
	})
}
