package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tender-backend/internal/bootstrap"
	"tender-backend/internal/ingest"
)

func newIngestCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <path>...",
		Short: "Run the upload pipeline for local files against the configured storage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(v)
			app, err := bootstrap.BuildServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			tenderID := v.GetString("tender")
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				saved, err := app.IngestService.IngestFile(cmd.Context(), tenderID, ingest.File{
					Name: filepath.Base(path),
					Data: data,
				})
				if err != nil {
					return err
				}
				if err := enc.Encode(saved); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().String("tender", "", "tender id for tender documents (defaults to DEFAULT_TENDER_ID)")
	_ = v.BindPFlag("tender", cmd.Flags().Lookup("tender"))
	return cmd
}
