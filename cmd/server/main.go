// @title                       Local Services Marketplace API
// @version                     1.0
// @description                 Accounts, service listings, service requests and provider feedback.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/localpro/marketplace-api/internal/api"
	"github.com/localpro/marketplace-api/internal/api/metrics"
	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/core/ports"
	"github.com/localpro/marketplace-api/internal/core/service"
	"github.com/localpro/marketplace-api/internal/infrastructure/config"
	mongorepo "github.com/localpro/marketplace-api/internal/infrastructure/db/mongo"
	redisstore "github.com/localpro/marketplace-api/internal/infrastructure/db/redis"
	"github.com/localpro/marketplace-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Level: "error", Service: "marketplace-api"})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "marketplace-api",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "marketplace-api",
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongorepo.NewUserRepository(db)
	categories := mongorepo.NewCategoryRepository(db)
	listings := mongorepo.NewServiceRepository(db)
	requests := mongorepo.NewRequestRepository(db)
	feedback := mongorepo.NewFeedbackRepository(db)
	tx := mongorepo.NewTransactor(client)

	// --- Core ---
	tokens, err := service.NewTokenService(service.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
		Issuer:        cfg.Auth.Issuer,
	})
	if err != nil {
		return err
	}
	policy := domain.NewPolicy(cfg.Lifecycle.StrictTransitions)

	services := api.Services{
		Auth:     service.NewAuthService(users, tokens, service.NewBcryptHasher(cfg.Auth.BcryptCost), logger.Component("auth")),
		Profile:  service.NewProfileService(users, logger.Component("profile")),
		Catalog:  service.NewCatalogService(listings, categories, redisstore.NewCategoryCache(rdb), cfg.Cache.CategoryTTL, logger.Component("catalog")),
		Requests: service.NewRequestService(requests, listings, policy, logger.Component("requests")),
		Feedback: service.NewFeedbackService(feedback, requests, users, tx, policy, metrics.RatingObserver{}, logger.Component("feedback")),
	}

	var limiter ports.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = redisstore.NewTokenBucket(rdb, redisstore.BucketConfig{
			Prefix:         "ratelimit:auth",
			Capacity:       cfg.RateLimit.Capacity,
			RefillTokens:   cfg.RateLimit.RefillTokens,
			RefillInterval: cfg.RateLimit.RefillInterval,
		})
	}

	e := api.NewRouter(services, api.Options{
		AuthLimiter: limiter,
		HealthChecks: map[string]func(ctx context.Context) error{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger: log,
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
