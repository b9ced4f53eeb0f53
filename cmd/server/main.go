package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/onsiteclub/account-service/internal/config"
	"github.com/onsiteclub/account-service/internal/infrastructure/database"
	httpServer "github.com/onsiteclub/account-service/internal/infrastructure/http"
	"github.com/onsiteclub/account-service/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Development: cfg.Service.Environment != "production",
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting account service",
		zap.String("service", cfg.Service.Name),
		zap.String("environment", cfg.Service.Environment),
		zap.String("version", cfg.Service.Version),
	)

	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db, zapLogger)

	repos := database.NewRepositories(db, zapLogger)

	server := httpServer.NewServer(cfg, zapLogger, repos)

	go func() {
		if err := server.Start(); err != nil {
			zapLogger.Fatal("http server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped")
}
