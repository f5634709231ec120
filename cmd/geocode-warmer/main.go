package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ajharbinger/nachfolge-radar/internal/database"
	"github.com/ajharbinger/nachfolge-radar/internal/geocode"
	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/internal/repository"
	"github.com/ajharbinger/nachfolge-radar/pkg/config"
)

func main() {
	fmt.Println("🗺️  Nachfolge Radar Geocode Cache Warmer")
	fmt.Println("========================================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.New()
	appLogger := logger.NewLogger(cfg.Environment, cfg.LogLevel)

	if !cfg.HasMapboxToken() {
		log.Fatal("❌ MAPBOX_TOKEN is required to warm the geocode cache")
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	geocoder, closeGeocoder, err := geocode.NewFromConfig(ctx, cfg, appLogger)
	if err != nil {
		log.Fatal("Failed to set up geocoding:", err)
	}
	defer closeGeocoder()

	warmerConfig := geocode.WarmerConfig{
		Interval:      cfg.WarmerInterval,
		MaxConcurrent: cfg.WarmerConcurrency,
		CycleTimeout:  geocode.DefaultWarmerConfig().CycleTimeout,
	}

	fmt.Printf("📋 Warmer Configuration:\n")
	fmt.Printf("   • Interval: %v\n", warmerConfig.Interval)
	fmt.Printf("   • Max Concurrent: %d lookups\n", warmerConfig.MaxConcurrent)
	fmt.Printf("   • Rate Limit: %.1f requests/second\n", cfg.GeocodeRPS)
	fmt.Printf("   • Shared Cache: %v\n", cfg.HasRedis())

	repos := repository.NewRepositories(db.DB)
	warmer := geocode.NewWarmer(repos.Company, geocoder, warmerConfig, appLogger)

	// Check if this is a one-time run
	if len(os.Args) > 1 && os.Args[1] == "--once" {
		fmt.Println("\n🔄 Running one-time warm-up cycle...")
		stats, err := warmer.RunOnce(ctx)
		if err != nil {
			log.Fatalf("❌ Warm-up failed: %v", err)
		}

		fmt.Printf("\n✅ Warm-up completed!\n")
		fmt.Printf("   • Duration: %v\n", stats.Duration.Round(time.Second))
		fmt.Printf("   • Records: %d\n", stats.Records)
		fmt.Printf("   • Resolved: %d\n", stats.Resolved)
		fmt.Printf("   • Not Found: %d\n", stats.NotFound)
		fmt.Printf("   • Skipped (no address): %d\n", stats.Skipped)
		fmt.Printf("   • Failed: %d\n", stats.Failed)

		health := geocoder.Monitor().GetHealthStatus()
		if !health.IsHealthy {
			fmt.Println("\n⚠️  Geocoder health issues:")
			for _, issue := range health.HealthIssues {
				fmt.Printf("   • %s\n", issue)
			}
		}
		return
	}

	if err := warmer.Start(); err != nil {
		log.Fatalf("❌ Failed to start warmer: %v", err)
	}

	fmt.Println("\n🚀 Geocode warmer is running...")
	fmt.Println("Press Ctrl+C to stop gracefully")

	<-ctx.Done()
	fmt.Println("\n🛑 Shutdown signal received, stopping warmer...")

	if err := warmer.Stop(); err != nil {
		log.Printf("❌ Error stopping warmer: %v", err)
	} else {
		fmt.Println("✅ Warmer stopped successfully")
	}
}
