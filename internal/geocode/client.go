package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	apperrors "github.com/ajharbinger/nachfolge-radar/internal/errors"
	"github.com/ajharbinger/nachfolge-radar/internal/logger"
	"github.com/ajharbinger/nachfolge-radar/internal/metrics"
	"github.com/ajharbinger/nachfolge-radar/internal/models"
)

// DefaultEndpoint is the Mapbox forward geocoding API
const DefaultEndpoint = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Geocoder resolves company addresses to coordinates
type Geocoder interface {
	Locate(ctx context.Context, c *models.Company) (Coordinates, bool, error)
	Monitor() *HealthMonitor
}

// ClientConfig configures the Mapbox client
type ClientConfig struct {
	Endpoint          string
	Token             string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client performs rate-limited, cached Mapbox lookups
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	limiter    *tokenBucket
	cache      Cache
	monitor    *HealthMonitor
	logger     logger.Logger
}

// mapboxResponse is the subset of the geocoding response we read
type mapboxResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
	} `json:"features"`
}

// NewClient creates a geocoding client. A nil cache disables caching.
func NewClient(cfg ClientConfig, cache Cache, log logger.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		token:    cfg.Token,
		limiter:  newTokenBucket(cfg.RequestsPerSecond),
		cache:    cache,
		monitor:  NewHealthMonitor(),
		logger:   log,
	}
}

// Monitor returns the client's health monitor
func (c *Client) Monitor() *HealthMonitor {
	return c.monitor
}

// Locate geocodes a company's address. It reports false when the record has
// no address or the provider has no match.
func (c *Client) Locate(ctx context.Context, company *models.Company) (Coordinates, bool, error) {
	address, ok := AddressKey(company)
	if !ok {
		return Coordinates{}, false, nil
	}
	return c.Lookup(ctx, address)
}

// Lookup resolves a free-form address, consulting the cache first
func (c *Client) Lookup(ctx context.Context, address string) (Coordinates, bool, error) {
	if c.cache != nil {
		coords, ok, err := c.cache.Get(ctx, address)
		if err != nil {
			c.logger.Warn("geocode cache read failed", "cache", c.cache.Name(), "error", err.Error())
		} else if ok {
			metrics.GeocodeCacheHits.WithLabelValues(c.cache.Name()).Inc()
			return coords, true, nil
		}
		metrics.GeocodeCacheMisses.WithLabelValues(c.cache.Name()).Inc()
	}

	if c.token == "" {
		return Coordinates{}, false, apperrors.GeocodeError("geocoding is not configured", nil).
			WithDetails("MAPBOX_TOKEN is empty")
	}

	coords, found, err := c.fetch(ctx, address)
	if err != nil {
		c.monitor.RecordFailure(address, err.Error())
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return Coordinates{}, false, apperrors.GeocodeError("geocoding failed", err).WithOperation("Lookup")
	}

	c.monitor.RecordSuccess()
	if !found {
		metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
		return Coordinates{}, false, nil
	}
	metrics.GeocodeRequests.WithLabelValues("found").Inc()

	if c.cache != nil {
		if err := c.cache.Set(ctx, address, coords); err != nil {
			c.logger.Warn("geocode cache write failed", "cache", c.cache.Name(), "error", err.Error())
		}
	}
	return coords, true, nil
}

func (c *Client) fetch(ctx context.Context, address string) (Coordinates, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Coordinates{}, false, err
	}

	start := time.Now()
	defer func() { metrics.GeocodeDuration.Observe(time.Since(start).Seconds()) }()

	query := url.Values{}
	query.Set("access_token", c.token)
	query.Set("limit", "1")
	requestURL := fmt.Sprintf("%s/%s.json?%s", c.endpoint, url.PathEscape(address), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return Coordinates{}, false, fmt.Errorf("unauthorized: status %d", resp.StatusCode)
	case http.StatusTooManyRequests:
		return Coordinates{}, false, fmt.Errorf("rate limit exceeded: status %d", resp.StatusCode)
	default:
		return Coordinates{}, false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Coordinates{}, false, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(body.Features) == 0 || len(body.Features[0].Center) < 2 {
		return Coordinates{}, false, nil
	}

	center := body.Features[0].Center
	return Coordinates{Lng: center[0], Lat: center[1]}, true, nil
}

// Close stops the rate limiter and releases idle connections
func (c *Client) Close() {
	c.limiter.Stop()
	c.httpClient.CloseIdleConnections()
}

// tokenBucket hands out at most rps tokens per second with a burst of
// ceil(rps). A nil bucket never blocks.
type tokenBucket struct {
	tokens chan struct{}
	stop   chan struct{}
	once   sync.Once
}

func newTokenBucket(rps float64) *tokenBucket {
	if rps <= 0 {
		return nil
	}

	burst := int(math.Ceil(rps))
	b := &tokenBucket{
		tokens: make(chan struct{}, burst),
		stop:   make(chan struct{}),
	}
	for i := 0; i < burst; i++ {
		b.tokens <- struct{}{}
	}

	interval := time.Duration(float64(time.Second) / rps)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-b.stop:
				return
			case <-ticker.C:
				select {
				case b.tokens <- struct{}{}:
				default:
				}
			}
		}
	}()

	return b
}

// Wait blocks until a token is available or ctx is done
func (b *tokenBucket) Wait(ctx context.Context) error {
	if b == nil {
		return nil
	}
	select {
	case <-b.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop ends the refill loop
func (b *tokenBucket) Stop() {
	if b == nil {
		return
	}
	b.once.Do(func() { close(b.stop) })
}
