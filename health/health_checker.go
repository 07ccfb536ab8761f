// Package health provides health checking for the comparison API.
package health

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/giygas/medicine-compare/interfaces"
)

const (
	// DegradedAfterFailures consecutive upstream failures mark the service degraded
	DegradedAfterFailures = 3
	// UnhealthyAfterFailures consecutive upstream failures mark the service unhealthy
	UnhealthyAfterFailures = 10

	pingTimeout = 2 * time.Second
)

// Pinger is implemented by cache backends that can report connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	stats         interfaces.StatsStore
	cache         interfaces.AnalysisCache
	hasCredential bool
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(stats interfaces.StatsStore, cache interfaces.AnalysisCache, hasCredential bool) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		stats:         stats,
		cache:         cache,
		hasCredential: hasCredential,
	}
}

// HealthCheck derives the status from upstream failure streaks and cache connectivity.
// Used by /health HTTP endpoint
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	stats := h.stats.GetStats()

	cacheOK := true
	if p, ok := h.cache.(Pinger); ok {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		cacheOK = p.Ping(ctx) == nil
		cancel()
	}

	switch {
	case !h.hasCredential:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case stats.ConsecutiveFailures >= UnhealthyAfterFailures:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case stats.ConsecutiveFailures >= DegradedAfterFailures || !cacheOK:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	uptime := time.Duration(0)
	if start := h.stats.GetServerStartTime(); !start.IsZero() {
		uptime = time.Since(start)
	}

	data = map[string]any{
		"uptime_hours":         math.Round(uptime.Hours()*10) / 10,
		"nlp_requests":         stats.TotalRequests,
		"nlp_failures":         stats.TotalFailures,
		"consecutive_failures": stats.ConsecutiveFailures,
		"cache_hits":           stats.CacheHits,
		"cache_entries":        h.cache.Len(),
		"cache_ok":             cacheOK,
		"last_success":         formatTime(stats.LastSuccess),
		"last_failure":         formatTime(stats.LastFailure),
	}

	return status, data, httpStatus
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
