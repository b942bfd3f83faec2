package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"ecotrack-backend/internal/shared/config"
	"ecotrack-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.MigrateOptions().Merge(db.Options{
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		PingTimeout:     cfg.DBPingTimeout,
	})
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	version, err := db.RunMigrations(ctx, sqlDB)
	if err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
	log.Printf("migrations applied; version %d", version)
}
