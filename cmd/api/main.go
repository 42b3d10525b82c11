package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carhub/listings-api/internal/api"
	"github.com/carhub/listings-api/internal/core/ports"
	"github.com/carhub/listings-api/internal/infrastructure/config"
	mongodb "github.com/carhub/listings-api/internal/infrastructure/db/mongo"
	"github.com/carhub/listings-api/internal/infrastructure/storage"
	"github.com/carhub/listings-api/pkg/logger"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// @title           Car Listings API
// @version         1.0.0
// @description     CRUD backend for user accounts and car listings with image attachments.
// @BasePath        /api
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	blobs, err := buildBlobStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("blob store initialisation failed")
	}
	log.Info().Str("backend", cfg.Storage.Backend).Msg("blob store ready")

	e := api.NewRouter(db, blobs, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildBlobStore selects the storage backend from configuration.
func buildBlobStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.BlobStore, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendLocal:
		return storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicPrefix, log)
	case config.StorageBackendS3:
		return storage.NewS3Store(ctx, cfg.Storage.S3, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
