package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/redis/go-redis/v9"
)

// Cache stores resolved coordinates by address. Only successful lookups are
// stored.
type Cache interface {
	Get(ctx context.Context, address string) (Coordinates, bool, error)
	Set(ctx context.Context, address string, coords Coordinates) error
	Name() string
}

// MemoryCache is a bounded in-process LRU cache
type MemoryCache struct {
	mu    sync.Mutex
	items *lru.Cache
}

// NewMemoryCache creates an LRU cache holding at most maxEntries addresses
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &MemoryCache{items: lru.New(maxEntries)}
}

// Get returns the cached coordinates for an address
func (m *MemoryCache) Get(_ context.Context, address string) (Coordinates, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.items.Get(address)
	if !ok {
		return Coordinates{}, false, nil
	}
	return v.(Coordinates), true, nil
}

// Set stores coordinates, evicting the least recently used entry when full
func (m *MemoryCache) Set(_ context.Context, address string, coords Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items.Add(address, coords)
	return nil
}

// Len returns the number of cached addresses
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Len()
}

// Name identifies the cache in metrics
func (m *MemoryCache) Name() string { return "memory" }

// RedisCache shares coordinates between instances with a TTL per entry
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a cache on an existing redis client
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: "geocode:", ttl: ttl}
}

// NewRedisCacheFromURL connects to redis using a redis:// URL
func NewRedisCacheFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisCache(client, ttl), nil
}

// Get returns the cached coordinates for an address
func (r *RedisCache) Get(ctx context.Context, address string) (Coordinates, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+address).Bytes()
	if errors.Is(err, redis.Nil) {
		return Coordinates{}, false, nil
	}
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("redis get: %w", err)
	}

	var coords Coordinates
	if err := json.Unmarshal(raw, &coords); err != nil {
		return Coordinates{}, false, fmt.Errorf("corrupt cache entry for %q: %w", address, err)
	}
	return coords, true, nil
}

// Set stores coordinates with the configured TTL
func (r *RedisCache) Set(ctx context.Context, address string, coords Coordinates) error {
	raw, err := json.Marshal(coords)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+address, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Name identifies the cache in metrics
func (r *RedisCache) Name() string { return "redis" }

// Close releases the redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// TieredCache checks each layer in order and back-fills the faster layers on
// a hit further down.
type TieredCache struct {
	layers []Cache
}

// NewTieredCache chains caches, fastest first
func NewTieredCache(layers ...Cache) *TieredCache {
	return &TieredCache{layers: layers}
}

// Get returns the first hit
func (t *TieredCache) Get(ctx context.Context, address string) (Coordinates, bool, error) {
	var errs []error
	for i, layer := range t.layers {
		coords, ok, err := layer.Get(ctx, address)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			for _, faster := range t.layers[:i] {
				_ = faster.Set(ctx, address, coords)
			}
			return coords, true, nil
		}
	}
	return Coordinates{}, false, errors.Join(errs...)
}

// Set writes to every layer
func (t *TieredCache) Set(ctx context.Context, address string, coords Coordinates) error {
	var errs []error
	for _, layer := range t.layers {
		if err := layer.Set(ctx, address, coords); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Name identifies the cache in metrics
func (t *TieredCache) Name() string { return "tiered" }
