// Package interfaces defines core abstractions for the medicine comparison API
// to improve testability and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/medicine-compare/entities"
	"github.com/giygas/medicine-compare/witclient"
)

// Extractor calls the external entity extraction service
type Extractor interface {
	Extract(ctx context.Context, text string) (*witclient.Response, error)
}

// Analyzer turns one description into a MedicineAnalysis.
// It never fails; upstream errors produce the failure sentinel.
type Analyzer interface {
	Analyze(ctx context.Context, text string) entities.MedicineAnalysis
}

// Comparator compares a Chinese and a Western medicine description
type Comparator interface {
	Compare(ctx context.Context, chineseText, westernText string) entities.ComparisonResult
}

// ConflictTable is the single lookup primitive used during comparison.
// Only subject is used as the key.
type ConflictTable interface {
	Conflicts(subject, other string) bool
}

// AnalysisCache stores successful analyses. Implementations must be safe for concurrent use.
type AnalysisCache interface {
	Get(ctx context.Context, key string) (entities.MedicineAnalysis, bool, error)
	Set(ctx context.Context, key string, analysis entities.MedicineAnalysis) error

	// Sweep drops expired entries and returns how many were removed
	Sweep(ctx context.Context) int
	Len() int
}

// NLPStats is a point-in-time view of upstream extraction results
type NLPStats struct {
	TotalRequests       int64
	TotalFailures       int64
	CacheHits           int64
	ConsecutiveFailures int64
	LastSuccess         time.Time
	LastFailure         time.Time
}

// StatsStore tracks upstream results for health reporting.
// It provides thread-safe access with atomic operations.
type StatsStore interface {
	RecordSuccess()
	RecordFailure()
	RecordCacheHit()
	GetStats() NLPStats
	GetServerStartTime() time.Time
}

// Scheduler defines the contract for background jobs.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	AnalyzeMedicine(w http.ResponseWriter, r *http.Request)
	CompareMedicines(w http.ResponseWriter, r *http.Request)
	ServeGuide(w http.ResponseWriter, r *http.Request)
	// This will stay in all versions
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns the status, details for the response body and the HTTP status to use
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// InputValidator validates user supplied medicine descriptions
type InputValidator interface {
	ValidateMedicineText(input string) error
}
