// cmd/seed/main.go
package main

import (
	"log"
	"time"

	"github.com/your-org/perfume-shop/internal/config"
	"github.com/your-org/perfume-shop/internal/infrastructure/database/postgres"
)

// Initializes the database schema and loads the starter data set:
// admin account, categories and a handful of sample perfumes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.WaitFor(30 * time.Second); err != nil {
		log.Fatalf("Database is not reachable: %v", err)
	}

	migration := postgres.NewMigration(db.GetDB(), cfg)

	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	if err := migration.CreateIndexes(); err != nil {
		log.Fatalf("Index creation failed: %v", err)
	}

	if err := migration.SeedInitialData(); err != nil {
		log.Fatalf("Initial data seeding failed: %v", err)
	}

	if err := migration.SeedSamplePerfumes(); err != nil {
		log.Fatalf("Sample perfume seeding failed: %v", err)
	}

	log.Println("Database initialized and seeded")
}
