package main

import (
	"log"

	"github.com/brms-lite/brms-lite/config"
	"github.com/brms-lite/brms-lite/database"
)

// Standalone migration entry point. Connects with the same DATABASE_URL the
// server uses, applies the schema and seeds the default rows, then exits.
func main() {
	log.Println("Starting database migration...")

	config.LoadEnv()
	database.Initialize()
	database.Seed()

	log.Println("Database migration completed successfully!")
}
