package main

import (
	"context"
	"flag"
	"fmt"
	"food_ordering/internal/config"
	"food_ordering/internal/database"
	"food_ordering/internal/logger"
	"food_ordering/internal/migrations"
	"food_ordering/internal/repository"
	"food_ordering/internal/services"
)

func main() {
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogJSON)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := migrations.RunMigrations(db, *reset, log); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	repos := repository.NewRepositories(db)
	if err := migrations.SeedDefaultData(context.Background(), repos, log); err != nil {
		log.Fatal().Err(err).Msg("failed to create default data")
	}

	// Print a session token for the demo customer
	resolver := services.NewCustomerResolver(repos.Customers, cfg.JWTSecret)
	token, err := resolver.IssueToken(migrations.DefaultUsername, cfg.SessionTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to issue demo token")
	}
	fmt.Println("Database initialization completed successfully!")
	fmt.Println("Username:", migrations.DefaultUsername)
	fmt.Println("Password:", migrations.DefaultPassword)
	fmt.Println("Token:", token)
}
