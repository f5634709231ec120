package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ajharbinger/nachfolge-radar/internal/errors"
	"github.com/ajharbinger/nachfolge-radar/internal/geocode"
)

// HealthChecker is satisfied by database.DB
type HealthChecker interface {
	HealthCheckContext(ctx context.Context) error
}

// HealthHandler reports database, geocoder and warmer state
type HealthHandler struct {
	db       HealthChecker
	geocoder geocode.Geocoder
	warmer   *geocode.Warmer
}

// NewHealthHandler creates a new health handler. geocoder and warmer may be nil.
func NewHealthHandler(db HealthChecker, geocoder geocode.Geocoder, warmer *geocode.Warmer) *HealthHandler {
	return &HealthHandler{
		db:       db,
		geocoder: geocoder,
		warmer:   warmer,
	}
}

// GetSystemHealth returns overall system health status
func (h *HealthHandler) GetSystemHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	response := gin.H{
		"healthy":   true,
		"database":  "ok",
		"timestamp": time.Now(),
	}

	if h.geocoder != nil {
		response["geocoder_health"] = h.geocoder.Monitor().GetHealthStatus()
	} else {
		response["geocoder_health"] = "disabled"
	}

	if h.db == nil {
		response["healthy"] = false
		response["database"] = "not configured"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	if err := h.db.HealthCheckContext(ctx); err != nil {
		response["healthy"] = false
		response["database"] = "unavailable"
		response["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetGeocodeHealth returns detailed geocoder health status
func (h *HealthHandler) GetGeocodeHealth(c *gin.Context) {
	if h.geocoder == nil {
		respondError(c, apperrors.ServiceError("geocoding is not configured", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"health_status": h.geocoder.Monitor().GetHealthStatus(),
		"timestamp":     time.Now(),
	})
}

// ResetGeocodeHealth resets the geocoder health monitor
func (h *HealthHandler) ResetGeocodeHealth(c *gin.Context) {
	if h.geocoder == nil {
		respondError(c, apperrors.ServiceError("geocoding is not configured", nil))
		return
	}

	h.geocoder.Monitor().Reset()

	c.JSON(http.StatusOK, gin.H{
		"message":   "Geocoder health monitor reset successfully",
		"timestamp": time.Now(),
	})
}

// GetWarmerStatus returns the current status of the cache warmer
func (h *HealthHandler) GetWarmerStatus(c *gin.Context) {
	if h.warmer == nil {
		respondError(c, apperrors.ServiceError("geocode warmer is not configured", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"warmer_status": h.warmer.Status(),
		"timestamp":     time.Now(),
	})
}

// RunWarmerOnce runs a single warm-up cycle and returns its stats
func (h *HealthHandler) RunWarmerOnce(c *gin.Context) {
	if h.warmer == nil {
		respondError(c, apperrors.ServiceError("geocode warmer is not configured", nil))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Minute)
	defer cancel()

	stats, err := h.warmer.RunOnce(ctx)
	if err != nil {
		respondError(c, apperrors.ServiceError("warm-up cycle failed", err).WithOperation("RunWarmerOnce"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Warm-up cycle completed",
		"stats":     stats,
		"timestamp": time.Now(),
	})
}
