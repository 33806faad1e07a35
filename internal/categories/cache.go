package categories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jitendra20661/cbct-fyp/pkg/logging"
)

const cacheKey = "categories:list"

// CachedRepository wraps a Repository with a Redis read-through cache for the
// category list. Writes invalidate the cached list.
type CachedRepository struct {
	inner  Repository
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedRepository wraps inner. A nil redis client disables caching.
func NewCachedRepository(inner Repository, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedRepository{inner: inner, redis: redisClient, ttl: ttl, logger: logger}
}

func (r *CachedRepository) List(ctx context.Context) ([]Category, error) {
	if r.redis != nil {
		data, err := r.redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var cached []Category
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			// Corrupt entry, fall through and refresh.
		} else if err != redis.Nil {
			r.logger.Warn("category cache read failed", "error", err)
		}
	}

	list, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(list); err == nil {
			if err := r.redis.Set(ctx, cacheKey, data, r.ttl).Err(); err != nil {
				r.logger.Warn("category cache write failed", "error", err)
			}
		}
	}
	return list, nil
}

// GetByID is not cached; single-row lookups go straight to the inner repository.
func (r *CachedRepository) GetByID(ctx context.Context, id string) (*Category, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *CachedRepository) Create(ctx context.Context, req *CreateCategoryRequest) (*Category, error) {
	c, err := r.inner.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return c, nil
}

func (r *CachedRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedRepository) invalidate(ctx context.Context) {
	if r.redis == nil {
		return
	}
	if err := r.redis.Del(ctx, cacheKey).Err(); err != nil {
		r.logger.Warn("category cache invalidate failed", "error", fmt.Errorf("del %s: %w", cacheKey, err))
	}
}
