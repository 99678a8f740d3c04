package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/AllieBaig/lingoquest/internal/domain"
)

// PoolLoader fetches question pool content from a backing store
// (Postgres, seed files, etc).
type PoolLoader interface {
	LoadPools(ctx context.Context) (domain.Pools, error)
}

// PoolRepository caches the loaded pools with TTL to avoid repeated
// backing-store hits. The cached pools are treated as immutable.
type PoolRepository struct {
	loader PoolLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    domain.Pools
	expiresAt time.Time
}

func NewPoolRepository(loader PoolLoader, ttl time.Duration) *PoolRepository {
	return &PoolRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PoolRepository) GetPools(ctx context.Context) (domain.Pools, error) {
	now := r.clock()

	r.mu.RLock()
	if r.cached != nil && r.expiresAt.After(now) {
		defer r.mu.RUnlock()
		return r.cached, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("pools", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.cached != nil && r.expiresAt.After(now) {
			defer r.mu.RUnlock()
			return r.cached, nil
		}
		r.mu.RUnlock()

		pools, err := r.loader.LoadPools(ctx)
		if err != nil {
			return domain.Pools(nil), err
		}

		r.mu.Lock()
		r.cached = pools
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return pools, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.Pools), nil
}

// StaticPoolLoader is a loader backed by an in-memory map (tests/demos and
// the no-database fallback).
type StaticPoolLoader struct {
	pools domain.Pools
}

func NewStaticPoolLoader(pools domain.Pools) *StaticPoolLoader {
	return &StaticPoolLoader{pools: pools}
}

func (l *StaticPoolLoader) LoadPools(_ context.Context) (domain.Pools, error) {
	if len(l.pools) == 0 {
		return nil, domain.ErrPoolNotFound
	}
	return l.pools, nil
}

func (r *PoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
