package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "GEOCODE_CACHE_SIZE", "GEOCODE_RPS", "WARMER_INTERVAL_MINUTES", "ALLOWED_ORIGINS", "MAPBOX_TOKEN", "REDIS_URL"} {
		t.Setenv(key, "")
	}

	cfg := New()
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 5000, cfg.GeocodeCacheSize)
	assert.Equal(t, 10.0, cfg.GeocodeRPS)
	assert.Equal(t, 6*time.Hour, cfg.WarmerInterval)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.GetAllowedOrigins())
	assert.False(t, cfg.HasMapboxToken())
	assert.False(t, cfg.HasRedis())
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("GEOCODE_CACHE_SIZE", "100")
	t.Setenv("GEOCODE_CACHE_TTL_HOURS", "2")
	t.Setenv("GEOCODE_RPS", "2.5")
	t.Setenv("MAPBOX_TOKEN", "pk.test")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RUN_MIGRATIONS", "true")

	cfg := New()
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.IsSecurityEnabled())
	assert.Equal(t, 100, cfg.GeocodeCacheSize)
	assert.Equal(t, 2*time.Hour, cfg.GeocodeCacheTTL)
	assert.Equal(t, 2.5, cfg.GeocodeRPS)
	assert.True(t, cfg.HasMapboxToken())
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.GetAllowedOrigins())
}

func TestNew_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("GEOCODE_CACHE_SIZE", "lots")
	t.Setenv("MAX_REQUEST_SIZE", "-x")

	cfg := New()
	assert.Equal(t, 5000, cfg.GeocodeCacheSize)
	assert.Equal(t, int64(1024*1024), cfg.MaxRequestSize)
}
