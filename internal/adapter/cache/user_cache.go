package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "user-registration-service/internal/domain/user"
)

// UserCache stores single users by ID. Get returns nil, nil on a miss.
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

// Key is the Redis key for a cached user.
func Key(id string) string { return "user:" + id }

// RedisUserCache keeps JSON-encoded users in Redis with a fixed TTL.
type RedisUserCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisUserCache returns a UserCache whose entries expire after ttl.
func NewRedisUserCache(client redis.UniversalClient, ttl time.Duration, log *zap.Logger) UserCache {
	return &RedisUserCache{client: client, ttl: ttl, log: log.Named("user_cache")}
}

// Get returns the cached user, or nil, nil when id is not cached.
func (c *RedisUserCache) Get(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, Key(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.log.Debug("miss", zap.String("user_id", id))
		return nil, nil
	case err != nil:
		c.log.Error("read failed", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	u := new(domain.User)
	if err := json.Unmarshal(raw, u); err != nil {
		c.log.Error("corrupt entry", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("decode cached user %s: %w", id, err)
	}
	c.log.Debug("hit", zap.String("user_id", id))
	return u, nil
}

// Set caches u under its ID with the configured TTL.
func (c *RedisUserCache) Set(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("cannot cache nil user")
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", u.ID, err)
	}
	if err := c.client.Set(ctx, Key(u.ID), raw, c.ttl).Err(); err != nil {
		c.log.Error("write failed", zap.String("user_id", u.ID), zap.Error(err))
		return err
	}
	return nil
}

// Delete evicts id. Evicting an absent key is not an error.
func (c *RedisUserCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, Key(id)).Err(); err != nil {
		c.log.Error("delete failed", zap.String("user_id", id), zap.Error(err))
		return err
	}
	return nil
}
