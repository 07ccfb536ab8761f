// Package scheduler runs the periodic maintenance jobs of the comparison API:
// analysis cache sweeps, rate limiter bucket cleanup and NLP upstream health monitoring.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/medicine-compare/health"
	"github.com/giygas/medicine-compare/interfaces"
	"github.com/giygas/medicine-compare/logging"
	"github.com/giygas/medicine-compare/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const (
	cacheSweepMinutes     = 5
	limiterCleanupMinutes = 5
	healthMonitorMinutes  = 10

	// no successful extraction for this long while requests keep failing is reported
	staleSuccessThreshold = time.Hour
)

// BucketCleaner drops idle rate limiter buckets and returns how many remain
type BucketCleaner interface {
	Cleanup() int
}

// Scheduler handles background maintenance using dependency injection
type Scheduler struct {
	cache     interfaces.AnalysisCache
	stats     interfaces.StatsStore
	limiter   BucketCleaner
	scheduler *gocron.Scheduler
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance with injected dependencies.
// limiter may be nil.
func NewScheduler(cache interfaces.AnalysisCache, stats interfaces.StatsStore, limiter BucketCleaner) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	// a slow sweep must not overlap with the next run
	s.SingletonModeAll()

	return &Scheduler{
		cache:     cache,
		stats:     stats,
		limiter:   limiter,
		scheduler: s,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the scheduler asynchronously
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(cacheSweepMinutes).Minutes().Do(s.sweepCache); err != nil {
		logging.Error("Failed to schedule cache sweep", "error", err)
		return fmt.Errorf("failed to schedule cache sweep: %w", err)
	}

	if s.limiter != nil {
		if _, err := s.scheduler.Every(limiterCleanupMinutes).Minutes().Do(s.cleanupLimiter); err != nil {
			logging.Error("Failed to schedule rate limiter cleanup", "error", err)
			return fmt.Errorf("failed to schedule rate limiter cleanup: %w", err)
		}
	}

	if _, err := s.scheduler.Every(healthMonitorMinutes).Minutes().Do(func() { s.monitorHealth() }); err != nil {
		logging.Error("Failed to schedule health monitoring", "error", err)
		return fmt.Errorf("failed to schedule health monitoring: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Scheduler started", "jobs", len(s.scheduler.Jobs()))

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sweepCache removes expired analyses
func (s *Scheduler) sweepCache() {
	start := time.Now()
	removed := s.cache.Sweep(context.Background())
	metrics.AnalysisCacheEntries.Set(float64(s.cache.Len()))

	if removed > 0 {
		logging.Debug("Analysis cache swept",
			"removed", removed,
			"remaining", s.cache.Len(),
			"duration", time.Since(start).String(),
		)
	}
}

// cleanupLimiter drops buckets of clients that have been idle long enough to refill
func (s *Scheduler) cleanupLimiter() {
	remaining := s.limiter.Cleanup()
	metrics.RateLimiterBucketsTotal.Set(float64(remaining))
}

// monitorHealth reports a failing NLP upstream. Returns true when a warning was logged.
func (s *Scheduler) monitorHealth() bool {
	stats := s.stats.GetStats()

	if stats.ConsecutiveFailures >= health.DegradedAfterFailures {
		logging.Warn("NLP upstream is failing",
			"consecutive_failures", stats.ConsecutiveFailures,
			"last_failure", stats.LastFailure.Format(time.RFC3339),
		)
		return true
	}

	if stats.TotalFailures > 0 && !stats.LastSuccess.IsZero() &&
		stats.LastFailure.After(stats.LastSuccess) &&
		s.now().Sub(stats.LastSuccess) > staleSuccessThreshold {
		logging.Warn("No successful NLP extraction recently",
			"last_success", stats.LastSuccess.Format(time.RFC3339),
		)
		return true
	}

	return false
}
