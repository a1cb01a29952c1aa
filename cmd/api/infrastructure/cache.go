package infrastructure

import (
	"context"

	"go.uber.org/zap"

	"user-registration-service/internal/config"
	"user-registration-service/pkg/redis"
)

// NewRedisClient connects the optional user cache backend.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redis.Client, error) {
	r := cfg.Redis
	return redis.NewClient(ctx, redis.Config{
		Host:        r.Host,
		Port:        r.Port,
		Password:    r.Password,
		DB:          r.DB,
		MaxRetries:  r.MaxRetries,
		PoolSize:    r.PoolSize,
		MinIdleConn: r.MinIdleConn,
	}, l.Named("redis"))
}
