package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nyashahama/dengue-assessment-console/internal/config"
	"github.com/nyashahama/dengue-assessment-console/internal/gateway"
	"github.com/nyashahama/dengue-assessment-console/internal/server"
)

func main() {
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("gateway config loaded", "port", cfg.GatewayPort, "backend_url", cfg.BackendURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw := gateway.New(cfg.BackendURL, cfg.RequestTimeout, logger)
	if err := server.Run(ctx, ":"+cfg.GatewayPort, gw, server.Config{Service: "dengue.gateway"}, logger); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
