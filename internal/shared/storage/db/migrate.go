package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"tender-backend/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// gooseLogger routes goose progress lines into structured logs.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	telemetry.Info("db.migrate", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	telemetry.Error("db.migrate", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
}

// RunMigrations brings the schema for tenders, documents, messages and insights
// up to date and logs the version range applied. A nil database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate dialect: %w", err)
	}
	from, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		telemetry.Error("db.migrate_failed", map[string]any{"from_version": from, "error": err})
		return fmt.Errorf("apply migrations: %w", err)
	}
	to, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	telemetry.Info("db.migrated", map[string]any{
		"from_version": from,
		"to_version":   to,
		"applied":      to != from,
	})
	return nil
}
