package geocode

import (
	"strings"
	"sync"
	"time"
)

// Failure categories
const (
	FailureTimeout        = "timeout"
	FailureRateLimit      = "rate_limit"
	FailureAuthentication = "authentication"
	FailureNetwork        = "network"
	FailureOther          = "other"
)

// HealthMonitor tracks geocoder success and failure rates
type HealthMonitor struct {
	mu                   sync.RWMutex
	now                  func() time.Time
	totalRequests        int64
	successfulRequests   int64
	failedRequests       int64
	consecutiveFailures  int64
	lastFailureTime      time.Time
	lastSuccessTime      time.Time
	recentFailures       []FailureRecord
	maxRecentFailures    int
	failureThreshold     float64
	consecutiveThreshold int64
}

// FailureRecord is a single failed lookup
type FailureRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Address   string    `json:"address"`
	Error     string    `json:"error"`
	Category  string    `json:"category"`
}

// HealthStatus is a snapshot of the geocoder health
type HealthStatus struct {
	IsHealthy           bool            `json:"is_healthy"`
	TotalRequests       int64           `json:"total_requests"`
	SuccessfulRequests  int64           `json:"successful_requests"`
	FailedRequests      int64           `json:"failed_requests"`
	SuccessRate         float64         `json:"success_rate"`
	ConsecutiveFailures int64           `json:"consecutive_failures"`
	LastFailureTime     *time.Time      `json:"last_failure_time,omitempty"`
	LastSuccessTime     *time.Time      `json:"last_success_time,omitempty"`
	RecentFailures      []FailureRecord `json:"recent_failures"`
	HealthIssues        []string        `json:"health_issues"`
	RecommendedActions  []string        `json:"recommended_actions"`
}

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor() *HealthMonitor {
	return &HealthMonitor{
		now:                  time.Now,
		maxRecentFailures:    50,
		failureThreshold:     0.2,
		consecutiveThreshold: 5,
		recentFailures:       make([]FailureRecord, 0, 50),
	}
}

// RecordSuccess records a resolved address
func (h *HealthMonitor) RecordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.totalRequests++
	h.successfulRequests++
	h.consecutiveFailures = 0
	h.lastSuccessTime = h.now()
}

// RecordFailure records a failed lookup
func (h *HealthMonitor) RecordFailure(address, errorMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	h.totalRequests++
	h.failedRequests++
	h.consecutiveFailures++
	h.lastFailureTime = now

	h.recentFailures = append(h.recentFailures, FailureRecord{
		Timestamp: now,
		Address:   address,
		Error:     errorMsg,
		Category:  categorizeError(errorMsg),
	})
	if len(h.recentFailures) > h.maxRecentFailures {
		h.recentFailures = h.recentFailures[1:]
	}
}

// GetHealthStatus returns the current health status
func (h *HealthMonitor) GetHealthStatus() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := HealthStatus{
		IsHealthy:           true,
		TotalRequests:       h.totalRequests,
		SuccessfulRequests:  h.successfulRequests,
		FailedRequests:      h.failedRequests,
		ConsecutiveFailures: h.consecutiveFailures,
		SuccessRate:         1.0,
		RecentFailures:      make([]FailureRecord, len(h.recentFailures)),
		HealthIssues:        []string{},
		RecommendedActions:  []string{},
	}
	copy(status.RecentFailures, h.recentFailures)

	if h.totalRequests > 0 {
		status.SuccessRate = float64(h.successfulRequests) / float64(h.totalRequests)
	}
	if !h.lastFailureTime.IsZero() {
		t := h.lastFailureTime
		status.LastFailureTime = &t
	}
	if !h.lastSuccessTime.IsZero() {
		t := h.lastSuccessTime
		status.LastSuccessTime = &t
	}

	if h.totalRequests >= 10 && status.SuccessRate < (1.0-h.failureThreshold) {
		status.unhealthy("High failure rate detected (>20%)",
			"Check the Mapbox token and account quota")
	}

	if h.consecutiveFailures >= h.consecutiveThreshold {
		status.unhealthy("Multiple consecutive failures detected",
			"Verify that the geocoding endpoint is reachable")
	}

	// only meaningful once there have been failures since
	if !h.lastSuccessTime.IsZero() && h.lastFailureTime.After(h.lastSuccessTime) &&
		h.now().Sub(h.lastSuccessTime) > time.Hour {
		status.unhealthy("No successful lookups in the last hour",
			"Check network connectivity and the Mapbox status page")
	}

	h.analyzeFailurePatterns(&status)

	return status
}

func (s *HealthStatus) unhealthy(issue, action string) {
	s.IsHealthy = false
	s.HealthIssues = append(s.HealthIssues, issue)
	s.RecommendedActions = append(s.RecommendedActions, action)
}

// analyzeFailurePatterns reports a category that dominates recent failures
func (h *HealthMonitor) analyzeFailurePatterns(status *HealthStatus) {
	if len(h.recentFailures) < 3 {
		return
	}

	counts := make(map[string]int)
	for _, f := range h.recentFailures {
		counts[f.Category]++
	}

	total := len(h.recentFailures)
	for _, category := range []string{FailureTimeout, FailureRateLimit, FailureAuthentication, FailureNetwork} {
		if float64(counts[category])/float64(total) <= 0.5 {
			continue
		}
		switch category {
		case FailureTimeout:
			status.HealthIssues = append(status.HealthIssues, "Frequent timeout errors detected")
			status.RecommendedActions = append(status.RecommendedActions,
				"Increase GEOCODE_TIMEOUT_SECONDS or lower warmer concurrency")
		case FailureRateLimit:
			status.HealthIssues = append(status.HealthIssues, "Rate limiting detected")
			status.RecommendedActions = append(status.RecommendedActions,
				"Lower GEOCODE_RPS")
		case FailureAuthentication:
			status.HealthIssues = append(status.HealthIssues, "Authentication errors detected")
			status.RecommendedActions = append(status.RecommendedActions,
				"Verify MAPBOX_TOKEN")
		case FailureNetwork:
			status.HealthIssues = append(status.HealthIssues, "Network connectivity issues detected")
			status.RecommendedActions = append(status.RecommendedActions,
				"Check network connectivity and DNS resolution")
		}
	}
}

// categorizeError maps an error message onto a failure category
func categorizeError(errorMsg string) string {
	msg := strings.ToLower(errorMsg)

	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return FailureTimeout
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return FailureRateLimit
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "401") || strings.Contains(msg, "403"):
		return FailureAuthentication
	case strings.Contains(msg, "network") || strings.Contains(msg, "connection") || strings.Contains(msg, "dns"):
		return FailureNetwork
	default:
		return FailureOther
	}
}

// Reset clears all health monitoring data
func (h *HealthMonitor) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.totalRequests = 0
	h.successfulRequests = 0
	h.failedRequests = 0
	h.consecutiveFailures = 0
	h.lastFailureTime = time.Time{}
	h.lastSuccessTime = time.Time{}
	h.recentFailures = h.recentFailures[:0]
}

// IsHealthy returns true if the geocoder is operating within healthy parameters
func (h *HealthMonitor) IsHealthy() bool {
	return h.GetHealthStatus().IsHealthy
}

// GetFailureRate returns the share of failed lookups
func (h *HealthMonitor) GetFailureRate() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.totalRequests == 0 {
		return 0.0
	}
	return float64(h.failedRequests) / float64(h.totalRequests)
}
