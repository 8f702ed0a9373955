package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness
func HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
