package geocode

import (
	"context"

	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/pkg/config"
)

// NewFromConfig builds the geocoding client and its cache layers. It returns
// a nil client when neither a Mapbox token nor a shared cache is configured.
// The returned cleanup releases the client and the redis connection.
func NewFromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Client, func(), error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if !cfg.HasMapboxToken() && !cfg.HasRedis() {
		log.Warn("geocoding disabled: MAPBOX_TOKEN and REDIS_URL are empty")
		return nil, func() {}, nil
	}

	memory := NewMemoryCache(cfg.GeocodeCacheSize)
	var cache Cache = memory
	var redisCache *RedisCache

	if cfg.HasRedis() {
		var err error
		redisCache, err = NewRedisCacheFromURL(ctx, cfg.RedisURL, cfg.GeocodeCacheTTL)
		if err != nil {
			return nil, nil, err
		}
		cache = NewTieredCache(memory, redisCache)
		log.Info("geocode cache configured", "layers", "memory,redis", "ttl", cfg.GeocodeCacheTTL.String())
	} else {
		log.Info("geocode cache configured", "layers", "memory", "size", cfg.GeocodeCacheSize)
	}

	if !cfg.HasMapboxToken() {
		log.Warn("MAPBOX_TOKEN is empty, only cached addresses will resolve")
	}

	client := NewClient(ClientConfig{
		Endpoint:          cfg.MapboxEndpoint,
		Token:             cfg.MapboxToken,
		RequestsPerSecond: cfg.GeocodeRPS,
		Timeout:           cfg.GeocodeTimeout,
	}, cache, log)

	cleanup := func() {
		client.Close()
		if redisCache != nil {
			if err := redisCache.Close(); err != nil {
				log.Warn("failed to close redis cache", "error", err.Error())
			}
		}
	}
	return client, cleanup, nil
}
