package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/AllieBaig/lingoquest/internal/domain"
)

// PoolLoader fetches question pool content from a backing store (e.g., Postgres).
type PoolLoader interface {
	LoadPools(ctx context.Context) (domain.Pools, error)
}

// PoolRepository caches pool content in Redis (one hash, field per
// category) and falls back to a loader on cache miss.
// Items are stored as: HSET lingoquest:pools {category} {items JSON}
type PoolRepository struct {
	client *redis.Client
	loader PoolLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

const poolsKey = "lingoquest:pools"

func NewPoolRepository(client *redis.Client, loader PoolLoader, ttl time.Duration) *PoolRepository {
	return &PoolRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PoolRepository) GetPools(ctx context.Context) (domain.Pools, error) {
	cached, err := r.client.HGetAll(ctx, poolsKey).Result()
	if err == nil && len(cached) > 0 {
		return poolsFromCache(cached)
	}

	result, err, _ := r.sf.Do(poolsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		cached, err := r.client.HGetAll(ctx, poolsKey).Result()
		if err == nil && len(cached) > 0 {
			return poolsFromCacheAny(cached)
		}

		pools, err := r.loader.LoadPools(ctx)
		if err != nil {
			return domain.Pools(nil), err
		}

		pipe := r.client.Pipeline()
		for category, items := range pools {
			data, err := json.Marshal(items)
			if err != nil {
				return domain.Pools(nil), fmt.Errorf("marshal pool %q: %w", category, err)
			}
			pipe.HSet(ctx, poolsKey, string(category), data)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, poolsKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return pools, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.Pools), nil
}

// Invalidate drops the cached pools so the next read hits the loader.
func (r *PoolRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, poolsKey).Err()
}

func poolsFromCache(cached map[string]string) (domain.Pools, error) {
	pools := make(domain.Pools, len(cached))
	for category, raw := range cached {
		var items []domain.PoolItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("unmarshal cached pool %q: %w", category, err)
		}
		pools[domain.Category(category)] = items
	}
	return pools, nil
}

func poolsFromCacheAny(cached map[string]string) (interface{}, error) {
	pools, err := poolsFromCache(cached)
	if err != nil {
		return domain.Pools(nil), err
	}
	return pools, nil
}

func (r *PoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
