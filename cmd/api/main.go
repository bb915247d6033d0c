package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tender-backend/internal/bootstrap"
	"tender-backend/internal/shared/config"
	"tender-backend/internal/shared/server"
	"tender-backend/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		telemetry.Error("api.bootstrap_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		telemetry.Info("api.listening", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.Error("api.server_error", map[string]any{"error": err})
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("api.shutdown_failed", map[string]any{"error": err})
	}
}
