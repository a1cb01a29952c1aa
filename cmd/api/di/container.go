package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-registration-service/cmd/api/infrastructure"
	"user-registration-service/internal/adapter/cache"
	"user-registration-service/internal/adapter/db/postgres"
	ginhandler "user-registration-service/internal/adapter/gin/handler"
	ginrouter "user-registration-service/internal/adapter/gin/router"
	"user-registration-service/internal/adapter/repository/cached"
	"user-registration-service/internal/adapter/storage"
	"user-registration-service/internal/config"
	"user-registration-service/internal/usecase/user"
	redisclient "user-registration-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client // nil unless REDIS_ENABLED
	AssetStore  storage.AssetStore
	UserUC      user.Usecase
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (_ *Container, err error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}
	// Release whatever was opened before a later step failed
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	c.DB, err = infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := postgres.AutoMigrate(c.DB); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	var repo user.Repository = postgres.NewUserRepoPG(c.DB, l)

	if cfg.Redis.Enabled {
		c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}

		userCache := cache.NewRedisUserCache(
			c.RedisClient.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewUserRepository(repo, userCache, l)
	}

	// The upload directory or bucket must exist before the first request
	c.AssetStore, err = infrastructure.NewAssetStore(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize asset store: %w", err)
	}

	svc := user.New(repo, l)
	c.UserUC = svc
	c.GinHandler = ginhandler.NewUserHandler(svc, c.AssetStore, l)

	l.Info("container initialized",
		zap.String("db_driver", cfg.DB.Driver),
		zap.Bool("cache_enabled", cfg.Redis.Enabled),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("storage_location", c.AssetStore.Location()),
	)

	return c, nil
}

// HealthChecks returns the dependency probes served by /health
func (c *Container) HealthChecks() map[string]ginrouter.HealthChecker {
	checks := map[string]ginrouter.HealthChecker{
		"database": ginrouter.HealthFunc(func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if c.RedisClient != nil {
		checks["redis"] = c.RedisClient
	}
	return checks
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
