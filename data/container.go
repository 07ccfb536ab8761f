// Package data provides thread-safe runtime state for the comparison API.
// The StatsContainer tracks upstream NLP results with atomic operations so
// handlers and background jobs can read it without locks.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/medicine-compare/interfaces"
	"github.com/giygas/medicine-compare/logging"
)

// Compile-time check to ensure StatsContainer implements StatsStore
var _ interfaces.StatsStore = (*StatsContainer)(nil)

// StatsContainer holds upstream counters and timestamps
type StatsContainer struct {
	totalRequests       atomic.Int64
	totalFailures       atomic.Int64
	cacheHits           atomic.Int64
	consecutiveFailures atomic.Int64
	lastSuccess         atomic.Value // time.Time
	lastFailure         atomic.Value // time.Time
	serverStartTime     atomic.Value // time.Time
	now                 func() time.Time
}

// NewStatsContainer creates an empty container
func NewStatsContainer() *StatsContainer {
	sc := &StatsContainer{now: time.Now}
	sc.lastSuccess.Store(time.Time{})
	sc.lastFailure.Store(time.Time{})
	sc.serverStartTime.Store(time.Time{})
	return sc
}

// RecordSuccess counts a successful upstream call and resets the failure streak
func (sc *StatsContainer) RecordSuccess() {
	sc.totalRequests.Add(1)
	sc.consecutiveFailures.Store(0)
	sc.lastSuccess.Store(sc.now())
}

// RecordFailure counts a failed upstream call
func (sc *StatsContainer) RecordFailure() {
	sc.totalRequests.Add(1)
	sc.totalFailures.Add(1)
	streak := sc.consecutiveFailures.Add(1)
	sc.lastFailure.Store(sc.now())

	if streak == 5 {
		logging.Warn("NLP upstream failing repeatedly", "consecutive_failures", streak)
	}
}

// RecordCacheHit counts an analysis served from the cache
func (sc *StatsContainer) RecordCacheHit() {
	sc.cacheHits.Add(1)
}

// GetStats returns a snapshot. Fields are read independently, so the
// snapshot may straddle a concurrent update.
func (sc *StatsContainer) GetStats() interfaces.NLPStats {
	return interfaces.NLPStats{
		TotalRequests:       sc.totalRequests.Load(),
		TotalFailures:       sc.totalFailures.Load(),
		CacheHits:           sc.cacheHits.Load(),
		ConsecutiveFailures: sc.consecutiveFailures.Load(),
		LastSuccess:         loadTime(&sc.lastSuccess),
		LastFailure:         loadTime(&sc.lastFailure),
	}
}

// SetServerStartTime sets the server start time
func (sc *StatsContainer) SetServerStartTime(startTime time.Time) {
	sc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (sc *StatsContainer) GetServerStartTime() time.Time {
	return loadTime(&sc.serverStartTime)
}

func loadTime(v *atomic.Value) time.Time {
	if t, ok := v.Load().(time.Time); ok {
		return t
	}

	logging.Warn("Could not load time value from stats container")
	return time.Time{}
}
