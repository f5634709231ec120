package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL   string
	Port          string
	Environment   string
	LogLevel      string
	RunMigrations bool

	// Geocoding
	MapboxToken       string
	MapboxEndpoint    string
	RedisURL          string
	GeocodeCacheSize  int
	GeocodeCacheTTL   time.Duration
	GeocodeRPS        float64
	GeocodeTimeout    time.Duration
	WarmerInterval    time.Duration
	WarmerConcurrency int

	// Security configuration
	AllowedOrigins  string
	TrustedProxies  string
	EnableRateLimit bool
	MaxRequestSize  int64
}

// New creates a new configuration instance from environment variables
func New() *Config {
	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		RunMigrations: getEnv("RUN_MIGRATIONS", "false") == "true",

		MapboxToken:       getEnv("MAPBOX_TOKEN", ""),
		MapboxEndpoint:    getEnv("MAPBOX_ENDPOINT", "https://api.mapbox.com/geocoding/v5/mapbox.places"),
		RedisURL:          getEnv("REDIS_URL", ""),
		GeocodeCacheSize:  getEnvAsInt("GEOCODE_CACHE_SIZE", 5000),
		GeocodeCacheTTL:   time.Duration(getEnvAsInt("GEOCODE_CACHE_TTL_HOURS", 24*30)) * time.Hour,
		GeocodeRPS:        getEnvAsFloat("GEOCODE_RPS", 10),
		GeocodeTimeout:    time.Duration(getEnvAsInt("GEOCODE_TIMEOUT_SECONDS", 10)) * time.Second,
		WarmerInterval:    time.Duration(getEnvAsInt("WARMER_INTERVAL_MINUTES", 360)) * time.Minute,
		WarmerConcurrency: getEnvAsInt("WARMER_MAX_CONCURRENT", 4),

		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", ""),
		TrustedProxies:  getEnv("TRUSTED_PROXIES", ""),
		EnableRateLimit: getEnv("ENABLE_RATE_LIMIT", "true") == "true",
		MaxRequestSize:  getEnvAsInt64("MAX_REQUEST_SIZE", 1024*1024), // 1MB default
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasMapboxToken returns true if geocoding is configured
func (c *Config) HasMapboxToken() bool {
	return c.MapboxToken != ""
}

// HasRedis returns true if a shared geocode cache is configured
func (c *Config) HasRedis() bool {
	return c.RedisURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		return []string{"http://localhost:3000"}
	}
	origins := strings.Split(c.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

// GetTrustedProxies returns a slice of trusted proxy IPs
func (c *Config) GetTrustedProxies() []string {
	if c.TrustedProxies == "" {
		return []string{}
	}
	return strings.Split(c.TrustedProxies, ",")
}

// IsSecurityEnabled returns true if security features should be enabled
func (c *Config) IsSecurityEnabled() bool {
	return c.IsProduction() || getEnv("ENABLE_SECURITY", "false") == "true"
}
