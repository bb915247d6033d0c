package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tender-backend/internal/shared/storage/db"
	"tender-backend/internal/shared/telemetry"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(v)
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			sqlDB, err := db.Connect(cmd.Context(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer sqlDB.Close()

			if err := db.RunMigrations(cmd.Context(), sqlDB); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			telemetry.Info("migrate.complete", nil)
			return nil
		},
	}
}
