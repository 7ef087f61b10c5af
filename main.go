package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"userdir/internal/app"
	"userdir/internal/config"
	"userdir/internal/logging"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logging.New("error", "text", os.Stderr).Error(context.Background(), "failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	ctx := context.Background()

	// --- Application ---
	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error(ctx, "failed to create app", "error", err)
		os.Exit(1)
	}

	// --- Start HTTP Server ---
	log.Info(ctx, "starting server", "port", cfg.AppPort, "driver", cfg.DatabaseDriver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- application.Listen()
	}()

	select {
	case <-quit:
		log.Info(ctx, "shutting down server")
	case err := <-serverErr:
		log.Error(ctx, "server failed", "error", err)
	}

	if err := application.Shutdown(); err != nil {
		log.Error(ctx, "error during shutdown", "error", err)
		os.Exit(1)
	}
	log.Info(ctx, "server gracefully stopped")
}
