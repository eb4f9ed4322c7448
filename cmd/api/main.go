package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/config"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/i18n"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/infra"
	"github.com/Sagar-Sharma19-cmd/Sarathi/internal/server"
)

func main() {
	config.LoadDotEnvUp(8)

	env := os.Getenv("APP_ENV")
	var logger *zap.Logger
	var err error
	if env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	if err := i18n.Load(); err != nil {
		logger.Fatal("i18n load failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	inf, err := infra.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("infra init failed", zap.Error(err))
	}
	defer inf.Close()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(cfg, logger, inf),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("stopped")
}
