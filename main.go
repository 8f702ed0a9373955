package main

import (
	"log"

	v1 "github.com/brms-lite/brms-lite/api/v1"
	"github.com/brms-lite/brms-lite/config"
	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize database connection and run migrations
	database.Initialize()

	// Seed the default actor, project and environments
	defaultActor, err := database.EnsureDefaults(database.DB)
	if err != nil {
		log.Fatalf("Failed to seed defaults: %v", err)
	}
	log.Printf("Default project %s, actor %s", defaultActor.ProjectID, defaultActor.UserID)

	// Set Gin mode
	if config.GetEnv("GIN_MODE", "") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Env"},
		ExposeHeaders:    []string{"X-Resolved-Source", "X-Resolved-Version"},
		AllowCredentials: true,
	}
	origins := config.AllowedOrigins()
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = origins
	}
	router.Use(cors.New(corsConfig))

	// API routes with the actor context injected per request
	api := router.Group("/api")
	api.Use(middleware.ActorMiddleware(defaultActor))
	v1.RegisterRoutes(api, defaultActor)

	// Start server
	port := config.GetEnv("PORT", "5174")
	log.Printf("🚀 BRMS-lite starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
