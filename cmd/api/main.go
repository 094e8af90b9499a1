package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/nyashahama/dengue-assessment-console/internal/api"
	"github.com/nyashahama/dengue-assessment-console/internal/assistant"
	"github.com/nyashahama/dengue-assessment-console/internal/config"
	"github.com/nyashahama/dengue-assessment-console/internal/db"
	"github.com/nyashahama/dengue-assessment-console/internal/orchestrator"
	"github.com/nyashahama/dengue-assessment-console/internal/predictor"
	"github.com/nyashahama/dengue-assessment-console/internal/server"
	"github.com/nyashahama/dengue-assessment-console/internal/store"
	"github.com/nyashahama/dengue-assessment-console/internal/worker"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded",
		"env", cfg.Env,
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
		"assistant_mode", cfg.AssistantMode,
		"archive", cfg.ArchiveEnabled(),
	)

	// Root context cancelled by OS signal. Worker, janitor and server all
	// respect it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Model service ─────────────────────────────────────────────────────────
	pred := predictor.NewHTTPPredictor(cfg.APIBaseURL, cfg.RequestTimeout)

	var chat assistant.Assistant
	switch cfg.AssistantMode {
	case config.AssistantOffline:
		chat = assistant.NewOffline()
		logger.Info("assistant: answering offline from keyword rules")
	case config.AssistantFallback:
		chat = assistant.NewFallback(
			assistant.NewHTTPAssistant(cfg.AssistantBaseURL, cfg.RequestTimeout),
			assistant.NewOffline(),
			logger,
		)
		logger.Info("assistant: remote with offline fallback", "base_url", cfg.AssistantBaseURL)
	default:
		chat = assistant.NewHTTPAssistant(cfg.AssistantBaseURL, cfg.RequestTimeout)
		logger.Info("assistant: remote", "base_url", cfg.AssistantBaseURL)
	}

	deps := api.Deps{
		Predictor: pred,
		Assistant: chat,
		Scheduler: orchestrator.TimerScheduler{},
	}

	// ── Case archive (optional) ───────────────────────────────────────────────
	var cases api.CaseLister
	if cfg.ArchiveEnabled() {
		pool, queries, err := openDB(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer pool.Close()
		logger.Info("database connected")

		st := store.New(pool, queries)
		runner := worker.NewRunner(worker.NewJob(st, logger), worker.RunnerConfig{
			Workers:    cfg.ArchiveWorkers,
			JobTimeout: cfg.ArchiveTimeout,
			MaxRetries: cfg.ArchiveRetries,
		}, logger)

		// Blocks until ctx is done.
		go runner.Start(ctx)

		deps.Archiver = runner
		cases = st
	} else {
		logger.Info("archive disabled, DATABASE_URL not set")
	}

	// ── HTTP + gRPC health ────────────────────────────────────────────────────
	srv := api.NewServer(deps, cases, api.Config{
		Env:            cfg.Env,
		SessionIdleTTL: cfg.SessionIdleTTL,
		RequestTimeout: cfg.RequestTimeout,
		FollowUpDelay:  cfg.FollowUpDelay,
	}, logger)
	go srv.RunJanitor(ctx)

	err = server.Run(ctx, ":"+cfg.Port, srv, server.Config{
		// Generous: a prediction can take up to REQUEST_TIMEOUT.
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
		Service:      "dengue.console",
	}, logger)
	if err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

// openDB opens the connection pool and verifies it is reachable.
func openDB(dsn string) (*sql.DB, *db.Queries, error) {
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open: %w", err)
	}

	pool.SetMaxOpenConns(10)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(5 * time.Minute)
	pool.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}

	return pool, db.New(pool), nil
}
