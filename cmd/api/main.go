// @title        Bookshelf Review API
// @version      1.0
// @description  Catalog lookups over Open Library plus user registration and book reviews.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bookshelf/review-service/internal/api"
	"github.com/bookshelf/review-service/internal/core/service"
	"github.com/bookshelf/review-service/internal/infrastructure/config"
	mongostore "github.com/bookshelf/review-service/internal/infrastructure/db/mongo"
	"github.com/bookshelf/review-service/internal/infrastructure/db/postgres"
	redisstore "github.com/bookshelf/review-service/internal/infrastructure/db/redis"
	"github.com/bookshelf/review-service/internal/infrastructure/http/handlers"
	"github.com/bookshelf/review-service/internal/infrastructure/openlibrary"
	"github.com/bookshelf/review-service/internal/infrastructure/queue"
	"github.com/bookshelf/review-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// logger is not configured yet
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "review-service",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped with error")
	}
	log.Info().Msg("service stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Review store (required) ---
	if err := postgres.Migrate(cfg.Postgres.URL, logger.Component("migrate")); err != nil {
		return err
	}
	pool, err := postgres.Connect(ctx, postgres.Config{
		URL:      cfg.Postgres.URL,
		MaxConns: cfg.Postgres.MaxConns,
		Timeout:  cfg.Postgres.Timeout,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info().Msg("postgres connected")

	readinessDeps := []handlers.Dependency{
		{Name: "postgres", Ping: pool.Ping, Required: true},
	}

	// --- Audit trail (optional) ---
	var audit service.AuditPublisher
	var dispatcher *queue.Dispatcher
	mongoClient, mongoDB, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "review-service",
	})
	if err != nil {
		log.Warn().Err(err).Msg("mongodb unavailable, review audit trail disabled")
		readinessDeps = append(readinessDeps, handlers.Dependency{Name: "mongodb"})
	} else {
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()

		auditRepo := mongostore.NewAuditRepository(mongoDB)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to create review_events indexes")
		}
		dispatcher = queue.NewDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
		audit = dispatcher
		readinessDeps = append(readinessDeps, handlers.Dependency{
			Name: "mongodb",
			Ping: func(ctx context.Context) error { return mongostore.Ping(ctx, mongoClient) },
		})
	}

	// --- Idempotency keys (optional) ---
	var idem service.IdempotencyStore
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, idempotency keys disabled")
		readinessDeps = append(readinessDeps, handlers.Dependency{Name: "redis"})
	} else {
		defer func() { _ = rdb.Close() }()

		idem = redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		readinessDeps = append(readinessDeps, handlers.Dependency{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	// --- Services ---
	credentials := postgres.NewCredentialRepository(pool, cfg.Postgres.Timeout)
	reviews := postgres.NewReviewRepository(pool, cfg.Postgres.Timeout)
	catalogClient := openlibrary.NewClient(openlibrary.Config{
		BaseURL:   cfg.Catalog.BaseURL,
		UserAgent: cfg.Catalog.UserAgent,
		Timeout:   cfg.Catalog.Timeout,
		RPS:       cfg.Catalog.RPS,
	}, logger.Component("openlibrary"))

	e := api.NewRouter(api.RouterConfig{
		Services: api.Services{
			Auth:    service.NewAuthService(credentials, logger.Component("auth")),
			Catalog: service.NewCatalogService(catalogClient, cfg.Catalog.CoverTemplate, logger.Component("catalog")),
			Reviews: service.NewReviewService(credentials, reviews, idem, audit, logger.Component("reviews")),
		},
		Readiness: handlers.NewReadinessHandler(readinessDeps...),
		Logger:    logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Workers outlive the request context so queued events drain after the
	// server has stopped accepting writes.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if dispatcher != nil {
		dispatcher.Start(workerCtx)
	}

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		stopWorkers()
		if dispatcher != nil {
			dispatcher.Wait()
		}
		return err
	})

	return group.Wait()
}
