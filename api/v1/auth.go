package v1

import (
	"net/http"

	"github.com/brms-lite/brms-lite/dto"
	"github.com/brms-lite/brms-lite/models"
	"github.com/brms-lite/brms-lite/services"
	"github.com/gin-gonic/gin"
)

// AuthController issues actor tokens for the admin console
type AuthController struct {
	defaultActor models.ActorContext
}

// NewAuthController creates a new auth controller
func NewAuthController(defaultActor models.ActorContext) *AuthController {
	return &AuthController{defaultActor: defaultActor}
}

// IssueToken checks the operator credential and returns a bearer token
func (c *AuthController) IssueToken(ctx *gin.Context) {
	var req dto.TokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "email and password are required"})
		return
	}

	response, err := services.IssueToken(req, c.defaultActor)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, response)
}
