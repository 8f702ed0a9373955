package v1

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/brms-lite/brms-lite/dto"
	"github.com/brms-lite/brms-lite/middleware"
	"github.com/brms-lite/brms-lite/repositories"
	"github.com/brms-lite/brms-lite/services"
	"github.com/brms-lite/brms-lite/utils"
	"github.com/gin-gonic/gin"
)

// AuditController exposes the append-only audit trail
type AuditController struct {
	auditService *services.AuditService
}

// NewAuditController creates a new audit controller
func NewAuditController() *AuditController {
	return &AuditController{
		auditService: services.NewAuditService(),
	}
}

// RegisterRoutes registers audit routes
func (c *AuditController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit", c.List)
}

// List retrieves audit entries with parameterized filters
func (c *AuditController) List(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)

	filter := repositories.AuditFilter{
		EntryType: ctx.Query("type"),
		Action:    ctx.Query("action"),
	}
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.Limit = n
		}
	}
	if raw := ctx.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	entries, err := c.auditService.List(actor, filter)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}

	response := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, dto.AuditEntryResponse{
			ID:        entry.ID,
			Type:      entry.EntryType,
			Action:    entry.Action,
			RefID:     entry.RefID,
			Data:      json.RawMessage(entry.Data),
			ActorID:   entry.ActorID,
			Origin:    entry.Origin,
			CreatedAt: entry.CreatedAt,
		})
	}
	ctx.JSON(http.StatusOK, response)
}
