package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"vidtube/internal/cache"
	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/handlers"
	"vidtube/internal/jobs"
	"vidtube/internal/log"
	"vidtube/internal/middleware"
	"vidtube/internal/queue"
	"vidtube/internal/repository"
	"vidtube/internal/security"
	"vidtube/internal/server"
	"vidtube/internal/staging"
	"vidtube/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx := context.Background()

	if cfg.Postgres.AutoMigrate {
		if err := database.Migrate(cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate postgres")
		}
	}

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, "vidtube-api")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBuckets(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure buckets failed")
	}

	stagingArea, err := staging.NewArea(cfg.Uploads.StagingDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare staging directory")
	}

	loginLimiter, err := middleware.NewRedisLimiter(redisClient, cfg.Security.LoginRate, "vidtube:login")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build login limiter")
	}

	producer := queue.NewProducer(redisClient, cfg.Worker.Stream)

	handlerSet := handlers.NewHandlerSet(logger, cfg, handlers.Dependencies{
		Users:         repository.NewUserRepository(dbPool),
		Videos:        repository.NewVideoRepository(dbPool),
		Subscriptions: repository.NewSubscriptionRepository(dbPool),
		Media:         objectStore,
		Tasks:         producer,
		Tokens:        security.NewTokenIssuer(cfg.Security),
		Staging:       stagingArea,
		LoginLimiter:  loginLimiter,
		Checks: []handlers.HealthCheck{
			{Name: "postgres", Ping: dbPool.Ping},
			{Name: "redis", Ping: cache.Ping(redisClient)},
			{Name: "storage", Ping: func(ctx context.Context) error {
				_, err := objectStore.Client().BucketExists(ctx, cfg.Storage.BucketImages)
				return err
			}},
		},
	})
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(producer, cfg.Worker.SweepSchedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop(shutdownCtx)

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
