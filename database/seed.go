package database

import (
	"errors"
	"log"

	"github.com/brms-lite/brms-lite/config"
	"github.com/brms-lite/brms-lite/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seed creates the default actor, project and environments when the
// database is empty. The ids are stable across restarts so the fallback
// actor context in the middleware keeps pointing at the same rows.
func Seed() {
	actor, err := EnsureDefaults(DB)
	if err != nil {
		log.Fatalf("Failed to seed defaults: %v", err)
	}
	log.Printf("Default project %s, actor %s", actor.ProjectID, actor.UserID)
}

// EnsureDefaults is the Seed body split out so tests can run it against
// their own connection.
func EnsureDefaults(db *gorm.DB) (models.ActorContext, error) {
	orgID := config.GetEnv("DEFAULT_ORG_ID", "00000000-0000-0000-0000-000000000001")

	var user models.User
	err := db.Where("email = ?", config.GetEnv("DEFAULT_ACTOR_EMAIL", "system@brms.local")).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:    uuid.NewString(),
			Email: config.GetEnv("DEFAULT_ACTOR_EMAIL", "system@brms.local"),
			Name:  "System",
			Role:  models.RoleAdmin,
		}
		err = db.Create(&user).Error
	}
	if err != nil {
		return models.ActorContext{}, err
	}

	var project models.Project
	err = db.Where("organisation_id = ?", orgID).Order("created_at ASC").First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		project = models.Project{
			Name:           config.GetEnv("DEFAULT_PROJECT_NAME", "default"),
			OrganisationID: orgID,
		}
		err = db.Create(&project).Error
	}
	if err != nil {
		return models.ActorContext{}, err
	}

	defaults := []models.Environment{
		{ProjectID: project.ID, Key: "dev", Name: "Development", EnvType: "development", SortOrder: 1},
		{ProjectID: project.ID, Key: "staging", Name: "Staging", EnvType: "staging", SortOrder: 2},
		{ProjectID: project.ID, Key: "prod", Name: "Production", EnvType: "production", SortOrder: 3},
	}
	for _, env := range defaults {
		var count int64
		if err := db.Model(&models.Environment{}).
			Where("project_id = ? AND key = ?", project.ID, env.Key).
			Count(&count).Error; err != nil {
			return models.ActorContext{}, err
		}
		if count == 0 {
			if err := db.Create(&env).Error; err != nil {
				return models.ActorContext{}, err
			}
		}
	}

	return models.ActorContext{
		UserID:         user.ID,
		ProjectID:      project.ID,
		OrganisationID: orgID,
	}, nil
}
