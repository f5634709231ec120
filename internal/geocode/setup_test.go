package geocode

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajharbinger/nachfolge-radar/pkg/config"
)

func TestNewFromConfig_Disabled(t *testing.T) {
	client, cleanup, err := NewFromConfig(context.Background(), &config.Config{}, nil)
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, client)
}

func TestNewFromConfig_MemoryOnly(t *testing.T) {
	cfg := &config.Config{MapboxToken: "pk.test", GeocodeCacheSize: 10, GeocodeTimeout: time.Second}

	client, cleanup, err := NewFromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, client)
	assert.Equal(t, "memory", client.cache.Name())
}

func TestNewFromConfig_TieredWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		RedisURL:         "redis://" + mr.Addr(),
		GeocodeCacheSize: 10,
		GeocodeCacheTTL:  time.Hour,
	}

	client, cleanup, err := NewFromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, client)
	assert.Equal(t, "tiered", client.cache.Name())

	// cache-only mode still serves addresses warmed elsewhere
	shared := NewRedisCache(redisClientFor(t, mr), time.Hour)
	require.NoError(t, shared.Set(context.Background(), "Hafenstraße 1, 20457, Hamburg, Germany", Coordinates{Lng: 9.98, Lat: 53.54}))

	coords, found, err := client.Lookup(context.Background(), "Hafenstraße 1, 20457, Hamburg, Germany")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 53.54, coords.Lat)
}

func TestNewFromConfig_BadRedisURL(t *testing.T) {
	_, _, err := NewFromConfig(context.Background(), &config.Config{RedisURL: "not a url"}, nil)
	assert.Error(t, err)
}

func redisClientFor(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}
