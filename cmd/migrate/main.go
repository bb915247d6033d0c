package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"tender-backend/internal/shared/config"
	"tender-backend/internal/shared/storage/db"
	"tender-backend/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}
	telemetry.Info("migrate.complete", nil)
}
