package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-registration-service/internal/adapter/cache"
	domain "user-registration-service/internal/domain/user"
	"user-registration-service/internal/usecase/user"
)

// UserRepository puts a read-through cache in front of another repository.
// Lookups by ID are served from the cache and concurrent misses for the same
// ID share one database read. Writes go to the database first and then evict
// the cached entry. Everything else passes straight through, including
// GetForUpdate: an entry filled by a reader that raced a write can be older
// than the row, and must never be written back.
type UserRepository struct {
	user.Repository
	cache  cache.UserCache // nil disables caching
	log    *zap.Logger
	flight singleflight.Group
}

// NewUserRepository wraps next with c. A nil cache disables caching.
func NewUserRepository(next user.Repository, c cache.UserCache, log *zap.Logger) user.Repository {
	return &UserRepository{Repository: next, cache: c, log: log}
}

func (r *UserRepository) lookup(ctx context.Context, id string) *domain.User {
	if r.cache == nil {
		return nil
	}
	u, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("cache read failed, using database", zap.String("id", id), zap.Error(err))
		return nil
	}
	return u
}

// GetByID serves from the cache and fills it from the wrapped repository
// on a miss.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u := r.lookup(ctx, id); u != nil {
		return u, nil
	}

	v, err, shared := r.flight.Do(cache.Key(id), func() (any, error) {
		if u := r.lookup(ctx, id); u != nil {
			return u, nil
		}
		u, err := r.Repository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("cache fill failed", zap.String("id", id), zap.Error(err))
			}
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u := v.(*domain.User)
	if !shared {
		return u, nil
	}
	// the usecase edits the returned user in place
	own := *u
	return &own, nil
}

// Update writes through and evicts the cached entry.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	if err := r.Repository.Update(ctx, u); err != nil {
		return err
	}
	r.evict(ctx, u.ID)
	return nil
}

// Delete removes the user and evicts the cached entry.
func (r *UserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.Repository.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, id)
	return u, nil
}

func (r *UserRepository) evict(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("cache evict failed", zap.String("id", id), zap.Error(err))
	}
}
