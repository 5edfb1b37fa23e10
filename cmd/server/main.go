package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"epicure-backend/internal/config"
	"epicure-backend/internal/database"
	"epicure-backend/internal/logger"
	"epicure-backend/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.Environment)
	for _, w := range cfg.Warnings() {
		logger.Warn().Msg(w)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repo, err := database.Open(ctx, cfg)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database connection failed")
	}
	logger.Info().Str("driver", cfg.DBDriver).Msg("database connected")

	app := server.New(cfg, repo)

	go func() {
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()
	logger.Info().Str("port", cfg.HTTPPort).Msg("Epicure server is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	if err := repo.Close(closeCtx); err != nil {
		logger.Error().Err(err).Msg("database close")
	}
}
