package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajharbinger/nachfolge-radar/internal/database"
	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/internal/repository"
	"github.com/ajharbinger/nachfolge-radar/internal/scoring"
	"github.com/ajharbinger/nachfolge-radar/internal/services"
	"github.com/ajharbinger/nachfolge-radar/pkg/config"
)

// globalOptions are shared by every subcommand
type globalOptions struct {
	file     string
	asOf     string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "nachfolge-report",
		Short:        "Rank, export and import Hamburg succession targets",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.file, "file", "", "Read records from a JSON file instead of DATABASE_URL")
	cmd.PersistentFlags().StringVar(&opts.asOf, "as-of", "", "Reference date for ages (YYYY-MM-DD, default today)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	cmd.AddCommand(newRankCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newScoreCmd(opts))
	return cmd
}

// engine returns a scoring engine pinned to --as-of when given
func (o *globalOptions) engine() (*scoring.ScoringEngine, error) {
	if o.asOf == "" {
		return scoring.NewScoringEngine(), nil
	}
	d, err := time.Parse("2006-01-02", o.asOf)
	if err != nil {
		return nil, fmt.Errorf("invalid --as-of: %w", err)
	}
	return scoring.NewScoringEngine(scoring.WithClock(func() time.Time { return d })), nil
}

// openServices wires the services over the JSON file or the database
func (o *globalOptions) openServices(ctx context.Context) (*services.Services, func(), error) {
	engine, err := o.engine()
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewLogger("cli", o.logLevel)

	repos, cleanup, err := o.openRepositories(ctx)
	if err != nil {
		return nil, nil, err
	}

	svc := services.NewServices(services.Dependencies{
		Repos:  repos,
		Engine: engine,
		Logger: log,
	})
	return svc, cleanup, nil
}

func (o *globalOptions) openRepositories(_ context.Context) (*repository.Repositories, func(), error) {
	if o.file != "" {
		f, err := os.Open(o.file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", o.file, err)
		}
		defer f.Close()

		records, err := services.DecodeCompanies(f)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", o.file, err)
		}
		return repository.NewMemoryStore(records).Repositories(), func() {}, nil
	}

	_ = godotenv.Load()
	cfg := config.New()

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database (set DATABASE_URL or use --file): %w", err)
	}
	return repository.NewRepositories(db.DB), func() { db.Close() }, nil
}
