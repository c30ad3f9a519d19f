package main

import (
	"context"
	"food_ordering/internal/config"
	"food_ordering/internal/database"
	"food_ordering/internal/handlers"
	"food_ordering/internal/locker"
	"food_ordering/internal/logger"
	"food_ordering/internal/migrations"
	"food_ordering/internal/redis"
	"food_ordering/internal/repository"
	"food_ordering/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogJSON)

	// Initialize store
	var repos repository.Repositories
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		log.Warn().Msg("using in-memory store, data is lost on exit")
		repos = repository.NewMemoryStore().Repositories()
	case config.StoreBackendPostgres:
		db, err := database.Initialize(cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		repos = repository.NewRepositories(db)
	default:
		log.Fatal().Str("backend", cfg.StoreBackend).Msg("unknown store backend")
	}

	if cfg.SeedDefaultData || cfg.StoreBackend == config.StoreBackendMemory {
		if err := migrations.SeedDefaultData(context.Background(), repos, log); err != nil {
			log.Fatal().Err(err).Msg("failed to seed default data")
		}
	}

	// Per-customer cart serialization: redis when configured, else in-process
	var locks locker.Locker = locker.NewLocal()
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL, cfg.LockTimeout())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		locks = redisClient
	}

	// Initialize services
	resolver := services.NewCustomerResolver(repos.Customers, cfg.JWTSecret)
	catalogService := services.NewCatalogService(repos.Menu)
	cartService := services.NewCartService(repos.CartLines, catalogService, locks)
	checkoutService := services.NewCheckoutService(repos.CartLines, repos.PlacedOrders, locks, log)

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(catalogService, cartService, checkoutService, log)

	// Setup routes
	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestLogger(log), handlers.RequestTimeout(cfg.RequestDeadline()))
	apiHandler.Register(router.Group("/api"), resolver)

	// Start server
	log.Info().Str("port", cfg.ServerPort).Msg("server starting")
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
