// Command seedcategories upserts the default service categories and drops
// the cached category list so the API serves the new set immediately.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/localpro/marketplace-api/internal/core/domain"
	"github.com/localpro/marketplace-api/internal/infrastructure/config"
	mongorepo "github.com/localpro/marketplace-api/internal/infrastructure/db/mongo"
	redisstore "github.com/localpro/marketplace-api/internal/infrastructure/db/redis"
	"github.com/localpro/marketplace-api/pkg/logger"
)

var defaultCategories = []domain.ServiceCategory{
	{Name: "Plumbing", Description: "Leaks, installations and drain clearing"},
	{Name: "Electrical", Description: "Wiring, lighting and appliance installation"},
	{Name: "Cleaning", Description: "Home and office cleaning"},
	{Name: "Gardening", Description: "Lawn care, pruning and landscaping"},
	{Name: "Painting", Description: "Interior and exterior painting"},
	{Name: "Moving", Description: "Packing, loading and transport"},
	{Name: "Handyman", Description: "Small repairs and assembly"},
	{Name: "Tutoring", Description: "Lessons and homework help"},
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Init(logger.Options{Level: "info", Pretty: true, Service: "seedcategories"})

	// Only the storage sections are needed; token secrets stay optional here.
	var cfg struct {
		Mongo config.MongoConfig
		Redis config.RedisConfig
	}
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "seedcategories",
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer client.Disconnect(context.Background())

	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	repo := mongorepo.NewCategoryRepository(db)
	for i := range defaultCategories {
		cat := defaultCategories[i]
		cat.IsActive = true
		if err := repo.Upsert(ctx, &cat); err != nil {
			log.Fatal().Err(err).Str("category", cat.Name).Msg("upsert category")
		}
		log.Info().Str("id", cat.ID).Str("category", cat.Name).Msg("category seeded")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, category cache will expire on its own")
		return
	}
	defer rdb.Close()

	if err := redisstore.NewCategoryCache(rdb).Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("invalidate category cache")
	}
}
