package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/avern/runyard/internal/api"
	"github.com/avern/runyard/internal/auth"
	"github.com/avern/runyard/internal/config"
	"github.com/avern/runyard/internal/keepalive"
	"github.com/avern/runyard/internal/runner"
	"github.com/avern/runyard/internal/sandbox"
	"github.com/avern/runyard/internal/stage"
	"github.com/avern/runyard/internal/store"
	"github.com/avern/runyard/internal/vault"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}

	blobs, err := vault.NewMinioStore(ctx, vault.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		Secure:    cfg.MinioSecure,
	})
	if err != nil {
		logger.Fatal("failed to connect to blob store", zap.Error(err))
	}

	queries := store.New(pool)
	authSvc := auth.NewService(queries, cfg.JWTSecret)
	vaultSvc := vault.NewService(queries, blobs, logger)

	// Staging uses durable rows burned after each attempt; swap in
	// stage.NewMemoryStager() for pure in-memory payloads.
	stager := stage.NewRowStager(queries)
	run := runner.New(stager, sandbox.NewClient(sandbox.Config{URL: cfg.SandboxURL}), logger)

	router := gin.Default()
	h := api.NewHandler(run, authSvc, vaultSvc)
	api.RegisterRoutes(router, h, authSvc)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.SelfURL != "" {
		go keepalive.New(cfg.SelfURL+"/ping", logger).Start(runCtx)
	}

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
