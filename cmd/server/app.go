package main

import (
	"alcyxob/meal-planner/internal/config"
	"alcyxob/meal-planner/internal/planner"
	"alcyxob/meal-planner/internal/repository"
	"alcyxob/meal-planner/internal/repository/mongo"
	"alcyxob/meal-planner/internal/repository/sqlite"
	"alcyxob/meal-planner/internal/service"
	"alcyxob/meal-planner/internal/storage"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// app bundles the services wired from one configuration.
type app struct {
	auth  service.AuthService
	meals service.MealService
	plans service.PlanService
	close func()
}

func openRepositories(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (repository.Repositories, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("could not open sqlite database: %w", err)
		}
		logger.Info("sqlite database opened", zap.String("path", cfg.Path))
		return sqlite.NewRepositories(db), func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close sqlite database", zap.Error(err))
			}
		}, nil
	default:
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("could not connect to MongoDB: %w", err)
		}
		db := client.Database(cfg.Name)
		indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(indexCtx, db); err != nil {
			logger.Warn("index creation incomplete", zap.Error(err))
		}
		logger.Info("database connection established", zap.String("database", cfg.Name))
		return mongo.NewRepositories(db), func() {
			logger.Info("disconnecting MongoDB")
			if err := mongo.DisconnectDB(client); err != nil {
				logger.Error("failed to disconnect MongoDB", zap.Error(err))
			}
		}, nil
	}
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	repos, closeRepos, err := openRepositories(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	var fileStorage storage.FileStorage = storage.Disabled{}
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, logger)
		if err != nil {
			closeRepos()
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
	} else {
		logger.Info("no s3 bucket configured, plan snapshots disabled")
	}

	mealService := service.NewMealService(repos.Meals, repos.Plans, logger)
	planService := service.NewPlanService(
		repos.Meals,
		repos.Plans,
		planner.NewEngine(),
		fileStorage,
		cfg.Planner.Quotas(),
		cfg.Planner.ArchiveConcurrency,
		logger,
	)
	authService := service.NewAuthService(repos.Users, mealService, cfg.JWT.Secret, cfg.JWT.Expiration, logger)

	return &app{auth: authService, meals: mealService, plans: planService, close: closeRepos}, nil
}
