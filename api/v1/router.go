package v1

import (
	"github.com/brms-lite/brms-lite/config"
	"github.com/brms-lite/brms-lite/lib/engine"
	"github.com/brms-lite/brms-lite/models"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all API routes. The actor middleware is applied
// by the caller on the enclosing group; handlers only read the injected
// actor context.
func RegisterRoutes(router *gin.RouterGroup, defaultActor models.ActorContext) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// Token issuance for the admin console
	authController := NewAuthController(defaultActor)
	router.POST("/auth/token", authController.IssueToken)

	// Document versioning and publication
	documentController := NewDocumentController()
	documentController.RegisterRoutes(router)

	// Releases
	releaseController := NewReleaseController()
	releaseController.RegisterRoutes(router)

	// Environments and deployments
	environmentController := NewEnvironmentController()
	environmentController.RegisterRoutes(router)

	// Deployment workflow history
	workflowController := NewWorkflowController()
	workflowController.RegisterRoutes(router)

	// Audit trail
	auditController := NewAuditController()
	auditController.RegisterRoutes(router)

	// Simulation
	simulateController := NewSimulateController(selectEngine())
	simulateController.RegisterRoutes(router)

	// Legacy graph-store aliases for the previous schema generation
	legacyController := NewLegacyController()
	legacyController.RegisterRoutes(router)
}

// selectEngine picks the decision engine: an external service when
// ENGINE_URL is configured, the in-process reference evaluator otherwise.
func selectEngine() engine.Engine {
	if url := config.GetEnv("ENGINE_URL", ""); url != "" {
		return engine.NewHTTPEngine(url)
	}
	return engine.NewLocalEngine()
}
