package main

import (
	"os"

	"tender-backend/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
