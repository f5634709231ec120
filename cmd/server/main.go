package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ajharbinger/nachfolge-radar/internal/api"
	"github.com/ajharbinger/nachfolge-radar/internal/database"
	"github.com/ajharbinger/nachfolge-radar/internal/geocode"
	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/internal/repository"
	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
	"github.com/ajharbinger/nachfolge-radar/internal/services"
	"github.com/ajharbinger/nachfolge-radar/pkg/config"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.New()
	appLogger := logger.NewLogger(cfg.Environment, cfg.LogLevel)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(); err != nil {
			appLogger.Fatal("Failed to run migrations", err)
		}
		appLogger.Info("Migrations applied")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	geocoder, closeGeocoder, err := geocode.NewFromConfig(ctx, cfg, appLogger.With("component", "geocode"))
	if err != nil {
		appLogger.Fatal("Failed to set up geocoding", err)
	}
	defer closeGeocoder()

	repos := repository.NewRepositories(db.DB)

	deps := services.Dependencies{
		Repos:  repos,
		Engine: scoring.NewScoringEngine(),
		Logger: appLogger.With("component", "services"),
	}

	routeDeps := api.RouteDeps{
		Config: cfg,
		DB:     db,
		Logger: appLogger.With("component", "http"),
	}

	// a typed nil would defeat the nil checks downstream
	if geocoder != nil {
		deps.Geocoder = geocoder
		routeDeps.Geocoder = geocoder

		warmerConfig := geocode.WarmerConfig{
			Interval:      cfg.WarmerInterval,
			MaxConcurrent: cfg.WarmerConcurrency,
			CycleTimeout:  geocode.DefaultWarmerConfig().CycleTimeout,
		}
		warmer := geocode.NewWarmer(repos.Company, geocoder, warmerConfig, appLogger.With("component", "warmer"))
		if cfg.HasMapboxToken() {
			if err := warmer.Start(); err != nil {
				appLogger.Error("Failed to start geocode warmer", err)
			}
			defer warmer.Stop()
		}
		routeDeps.Warmer = warmer
	}

	routeDeps.Services = services.NewServices(deps)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if proxies := cfg.GetTrustedProxies(); len(proxies) > 0 {
		if err := r.SetTrustedProxies(proxies); err != nil {
			appLogger.Fatal("Invalid TRUSTED_PROXIES", err)
		}
	}

	api.SetupRoutes(r, routeDeps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", err)
	}
	appLogger.Info("Server stopped")
}
