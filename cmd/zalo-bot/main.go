package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tridentdigital/zalo-inventory-bot/internal/conf"
	"github.com/tridentdigital/zalo-inventory-bot/internal/data"
	"github.com/tridentdigital/zalo-inventory-bot/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	if !cfg.SignatureCheckEnabled() {
		logger.Warn("WEBHOOK_SECRET is empty, webhook signatures will not be verified")
	}
	if cfg.PromptsPath != "" {
		logger.Info("prompts loaded", zap.String("path", cfg.PromptsPath))
	}

	// Initialize repository layer
	repos, err := data.NewRepositories(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create repositories", zap.Error(err))
	}
	defer repos.Close()

	logger.Info("store opened",
		zap.String("db", cfg.Store.DBPath),
		zap.String("search_backend", cfg.Search.Backend),
	)

	srv := server.NewZaloServer(cfg, repos, logger)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return logger
}
