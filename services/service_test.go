package services

import (
	"testing"

	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest wires the package-global connection to a fresh in-memory
// database and returns the seeded default actor. Each test gets its own
// schema; the single-connection pool keeps every query on the same
// in-memory instance.
func setupTest(t *testing.T) models.ActorContext {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models...))
	database.DB = db

	actor, err := database.EnsureDefaults(db)
	require.NoError(t, err)
	actor.Origin = "test"
	return actor
}
