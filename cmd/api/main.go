package main

import (
	"fmt"
	"os"

	"pocketledger/internal/config"
	"pocketledger/internal/database"
	"pocketledger/internal/logger"
	"pocketledger/internal/server"
	"pocketledger/internal/storage"
	"pocketledger/internal/validator"
)

// @title           PocketLedger API
// @version         1.0
// @description     PocketLedger is a personal bookkeeping ledger: transactions, budgets, savings goals, reports and backups.

// @host      localhost:8080
// @BasePath  /api/v1
func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	svc := server.NewServices(storage.New(dbManager.DB()), appConfig.DefaultWarningThreshold, nil)

	if appConfig.SeedDefaultCategories {
		seeded, err := svc.Categories.EnsureDefaults()
		if err != nil {
			return fmt.Errorf("failed to seed default categories: %w", err)
		}
		if seeded > 0 {
			log.Infow("seeded default categories", "count", seeded)
		}
	}

	validator.Register()
	router := server.NewRouter(svc, nil)

	log.Infow("Starting pocketledger server",
		"port", appConfig.Port,
		"driver", appConfig.DBDriver,
		"env", appConfig.Env,
	)
	return router.Run(":" + appConfig.Port)
}
