package geocode

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/internal/metrics"
	"github.com/ajharbinger/nachfolge-radar/internal/models"
	"github.com/ajharbinger/nachfolge-radar/internal/repository"
)

// CompanySource lists the records whose addresses are warmed
type CompanySource interface {
	GetAll(ctx context.Context, filters repository.CompanyFilters) ([]models.Company, error)
}

// WarmerConfig contains configuration for the cache warmer
type WarmerConfig struct {
	Interval      time.Duration `json:"interval"`
	MaxConcurrent int           `json:"max_concurrent"`
	CycleTimeout  time.Duration `json:"cycle_timeout"`
}

// DefaultWarmerConfig returns the defaults used by the server
func DefaultWarmerConfig() WarmerConfig {
	return WarmerConfig{
		Interval:      6 * time.Hour,
		MaxConcurrent: 4,
		CycleTimeout:  30 * time.Minute,
	}
}

// Warmer periodically geocodes every record address so map requests are
// served from the cache.
type Warmer struct {
	source    CompanySource
	geocoder  Geocoder
	config    WarmerConfig
	logger    logger.Logger
	isRunning bool
	stopChan  chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	lastStats *WarmerStats
}

// WarmerStats describes one warm-up cycle
type WarmerStats struct {
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Records   int           `json:"records"`
	Skipped   int           `json:"skipped"`
	Resolved  int           `json:"resolved"`
	NotFound  int           `json:"not_found"`
	Failed    int           `json:"failed"`
}

// Summary renders the stats for logs
func (s *WarmerStats) Summary() string {
	return fmt.Sprintf("records=%d, resolved=%d, not_found=%d, skipped=%d, failed=%d, duration=%v",
		s.Records, s.Resolved, s.NotFound, s.Skipped, s.Failed, s.Duration.Round(time.Millisecond))
}

// WarmerStatus is reported by the API
type WarmerStatus struct {
	IsRunning bool         `json:"is_running"`
	Interval  string       `json:"interval"`
	LastRun   *WarmerStats `json:"last_run,omitempty"`
	Health    HealthStatus `json:"health"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewWarmer creates a cache warmer
func NewWarmer(source CompanySource, geocoder Geocoder, config WarmerConfig, log logger.Logger) *Warmer {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}
	if config.Interval <= 0 {
		config.Interval = DefaultWarmerConfig().Interval
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Warmer{
		source:   source,
		geocoder: geocoder,
		config:   config,
		logger:   log,
	}
}

// Start runs a cycle immediately and then on every interval
func (w *Warmer) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return fmt.Errorf("warmer is already running")
	}

	w.isRunning = true
	w.stopChan = make(chan struct{})
	w.wg.Add(1)
	go w.run(w.stopChan)

	w.logger.Info("geocode warmer started",
		"interval", w.config.Interval.String(), "max_concurrent", w.config.MaxConcurrent)
	return nil
}

// Stop ends the loop and waits for the running cycle to finish
func (w *Warmer) Stop() error {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return fmt.Errorf("warmer is not running")
	}
	close(w.stopChan)
	w.isRunning = false
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Info("geocode warmer stopped")
	return nil
}

// IsRunning returns whether the loop is active
func (w *Warmer) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.isRunning
}

// Status returns the loop state, the last cycle and the geocoder health
func (w *Warmer) Status() WarmerStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()

	status := WarmerStatus{
		IsRunning: w.isRunning,
		Interval:  w.config.Interval.String(),
		Health:    w.geocoder.Monitor().GetHealthStatus(),
		Timestamp: time.Now(),
	}
	if w.lastStats != nil {
		stats := *w.lastStats
		status.LastRun = &stats
	}
	return status
}

// RunOnce executes a single warm-up cycle
func (w *Warmer) RunOnce(ctx context.Context) (*WarmerStats, error) {
	stats, err := w.cycle(ctx)

	w.mu.Lock()
	w.lastStats = stats
	w.mu.Unlock()

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.WarmerRuns.WithLabelValues(status).Inc()
	return stats, err
}

func (w *Warmer) run(stop <-chan struct{}) {
	defer w.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	w.runLogged(ctx)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.runLogged(ctx)
		}
	}
}

func (w *Warmer) runLogged(ctx context.Context) {
	if w.config.CycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.config.CycleTimeout)
		defer cancel()
	}

	stats, err := w.RunOnce(ctx)
	if err != nil {
		w.logger.Error("geocode warm-up cycle failed", err)
		return
	}
	w.logger.Info("geocode warm-up cycle completed", "summary", stats.Summary())
}

func (w *Warmer) cycle(ctx context.Context) (*WarmerStats, error) {
	stats := &WarmerStats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
		stats.Duration = stats.EndTime.Sub(stats.StartTime)
	}()

	companies, err := w.source.GetAll(ctx, repository.CompanyFilters{})
	if err != nil {
		return stats, fmt.Errorf("failed to load companies: %w", err)
	}
	stats.Records = len(companies)

	var resolved, notFound, skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.config.MaxConcurrent)

	for i := range companies {
		company := &companies[i]
		if _, ok := AddressKey(company); !ok {
			skipped.Add(1)
			continue
		}

		g.Go(func() error {
			_, found, err := w.geocoder.Locate(gctx, company)
			switch {
			case err != nil:
				failed.Add(1)
				w.logger.Debug("warm-up lookup failed", "company_id", company.ID, "error", err.Error())
			case found:
				resolved.Add(1)
			default:
				notFound.Add(1)
			}
			// lookup failures never abort the cycle
			return gctx.Err()
		})
	}

	err = g.Wait()

	stats.Resolved = int(resolved.Load())
	stats.NotFound = int(notFound.Load())
	stats.Skipped = int(skipped.Load())
	stats.Failed = int(failed.Load())

	if err != nil {
		return stats, fmt.Errorf("warm-up cycle interrupted: %w", err)
	}
	return stats, nil
}
