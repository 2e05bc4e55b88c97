package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"vidtube/internal/cache"
	"vidtube/internal/config"
	"vidtube/internal/log"
	"vidtube/internal/queue"
	"vidtube/internal/staging"
	"vidtube/internal/storage"
	"vidtube/internal/tasks"
)

// The worker drains the media task stream. It must share the API's staging
// directory for staging sweeps to find anything.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := cache.NewRedisClient(ctx, cfg.Redis, "vidtube-worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}

	stagingArea, err := staging.NewArea(cfg.Uploads.StagingDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare staging directory")
	}

	processor := tasks.NewProcessor(objectStore, stagingArea, cfg.Uploads.StaleAfter, logger)
	consumer := queue.NewConsumer(
		client,
		cfg.Worker.Stream,
		cfg.Worker.Group,
		cfg.Worker.Consumer,
		cfg.Worker.ClaimInterval,
		cfg.Worker.MaxDeliveries,
		logger,
		processor,
	)
	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("create consumer group failed")
	}

	logger.Info().Str("stream", cfg.Worker.Stream).Str("group", cfg.Worker.Group).Msg("worker started")
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
	}
	logger.Info().Msg("worker exited")
}
