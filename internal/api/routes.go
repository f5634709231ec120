package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ajharbinger/nachfolge-radar/internal/geocode"
	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/internal/middleware"
	"github.com/ajharbinger/nachfolge-radar/internal/services"
	"github.com/ajharbinger/nachfolge-radar/pkg/config"
)

// RouteDeps holds everything the routes need
type RouteDeps struct {
	Config   *config.Config
	Services *services.Services
	DB       HealthChecker
	Geocoder geocode.Geocoder
	Warmer   *geocode.Warmer
	Logger   logger.Logger
}

// SetupRoutes configures middleware and all API routes
func SetupRoutes(r *gin.Engine, deps RouteDeps) {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.New()
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware(cfg.MaxRequestSize))
	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware())
	}

	companyHandler := NewCompanyHandler(deps.Services)
	healthHandler := NewHealthHandler(deps.DB, deps.Geocoder, deps.Warmer)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// Company list, detail and map
		v1.GET("/companies", companyHandler.ListCompanies)
		v1.GET("/companies/:id", companyHandler.GetCompany)
		v1.GET("/companies/:id/shareholders", companyHandler.GetShareholders)
		v1.GET("/companies/:id/financials", companyHandler.GetFinancials)
		v1.GET("/markers", companyHandler.GetMarkers)
		v1.GET("/cities", companyHandler.GetCities)

		// Bulk data
		v1.GET("/export", companyHandler.ExportCompanies)
		v1.POST("/import", companyHandler.ImportCompanies)

		// Health monitoring endpoints
		v1.GET("/health", healthHandler.GetSystemHealth)
		v1.GET("/health/geocode", healthHandler.GetGeocodeHealth)
		v1.POST("/health/geocode/reset", healthHandler.ResetGeocodeHealth)

		// Geocode cache warmer
		v1.GET("/geocode/warmer", healthHandler.GetWarmerStatus)
		v1.POST("/geocode/warmer/run-once", healthHandler.RunWarmerOnce)
	}
}
