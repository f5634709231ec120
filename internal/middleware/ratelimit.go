package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitConfig sets the number of requests a client IP may make per period
type RateLimitConfig struct {
	RequestsPerPeriod int64
	Period            time.Duration
}

// RateLimit returns a per-client-IP limiter backed by an in-process store.
// Expired client entries are swept by the store.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	rate := limiter.Rate{Period: cfg.Period, Limit: cfg.RequestsPerPeriod}
	retryAfter := strconv.Itoa(int(cfg.Period.Seconds()))

	return mgin.NewMiddleware(
		limiter.New(memory.NewStore(), rate),
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return c.ClientIP()
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.Header("Retry-After", retryAfter)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"code":        "RATE_LIMITED",
				"retry_after": retryAfter,
			})
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Rate limiter unavailable",
				"code":    "SERVICE_ERROR",
				"details": err.Error(),
			})
		}),
	)
}

// RateLimitingMiddleware allows 100 requests per minute per IP
func RateLimitingMiddleware() gin.HandlerFunc {
	return RateLimit(RateLimitConfig{RequestsPerPeriod: 100, Period: time.Minute})
}
