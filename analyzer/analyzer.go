// Package analyzer turns a free-text medicine description into a MedicineAnalysis
// using an external entity extraction service.
package analyzer

import (
	"context"
	"strings"
	"time"

	"github.com/giygas/medicine-compare/cache"
	"github.com/giygas/medicine-compare/entities"
	"github.com/giygas/medicine-compare/interfaces"
	"github.com/giygas/medicine-compare/logging"
	"github.com/giygas/medicine-compare/metrics"
)

// Entity groups read from the extraction response
const (
	EntityName        = "medicine:name"
	EntityIngredient  = "medicine:ingredient"
	EntityEffect      = "medicine:effect"
	EntityInteraction = "medicine:interaction"
	EntityDosage      = "medicine:dosage"
)

var _ interfaces.Analyzer = (*Analyzer)(nil)

// Outcome is the result of one analysis. On failure Err holds the cause and
// Analysis the sentinel record.
type Outcome struct {
	Analysis entities.MedicineAnalysis
	Err      error
	Cached   bool
}

// OK reports whether the analysis came from a successful extraction
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Analyzer calls the extractor, maps its entities and absorbs failures
type Analyzer struct {
	extractor interfaces.Extractor
	cache     interfaces.AnalysisCache
	stats     interfaces.StatsStore
	version   string
}

// Option configures the Analyzer
type Option func(*Analyzer)

// WithCache enables caching of successful analyses
func WithCache(c interfaces.AnalysisCache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithStats records upstream results in s
func WithStats(s interfaces.StatsStore) Option {
	return func(a *Analyzer) {
		a.stats = s
	}
}

// WithCacheVersion namespaces cache keys, normally the upstream API version
func WithCacheVersion(v string) Option {
	return func(a *Analyzer) {
		a.version = v
	}
}

// New creates an Analyzer over extractor
func New(extractor interfaces.Extractor, opts ...Option) *Analyzer {
	a := &Analyzer{
		extractor: extractor,
		cache:     cache.NoOpCache{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the analysis for text. It never fails: upstream errors
// yield the failure sentinel record.
func (a *Analyzer) Analyze(ctx context.Context, text string) entities.MedicineAnalysis {
	return a.AnalyzeOutcome(ctx, text).Analysis
}

// AnalyzeOutcome is Analyze with the upstream error kept
func (a *Analyzer) AnalyzeOutcome(ctx context.Context, text string) Outcome {
	key := cache.GenerateKey(a.version, text)

	if cached, ok, err := a.cache.Get(ctx, key); err != nil {
		logging.Warn("Analysis cache lookup failed", "error", err)
	} else if ok {
		metrics.NLPRequestsTotal.WithLabelValues(metrics.OutcomeCacheHit).Inc()
		if a.stats != nil {
			a.stats.RecordCacheHit()
		}
		return Outcome{Analysis: cached, Cached: true}
	}

	start := time.Now()
	resp, err := a.extractor.Extract(ctx, text)
	metrics.NLPRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil && ctx.Err() != nil {
		// caller went away, the upstream is not at fault
		metrics.NLPRequestsTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
		logging.Debug("Medicine analysis cancelled",
			"error", ctx.Err(),
			"text_length", len(text),
		)
		return Outcome{Analysis: entities.FailedMedicineAnalysis(), Err: err}
	}

	if err != nil {
		metrics.NLPRequestsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		if a.stats != nil {
			a.stats.RecordFailure()
		}
		logging.Warn("Medicine analysis failed",
			"error", err,
			"text_length", len(text),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return Outcome{Analysis: entities.FailedMedicineAnalysis(), Err: err}
	}

	metrics.NLPRequestsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	if a.stats != nil {
		a.stats.RecordSuccess()
	}

	analysis := mapResponse(resp)
	if err := a.cache.Set(ctx, key, analysis); err != nil {
		logging.Warn("Failed to cache analysis", "error", err)
	}

	logging.Debug("Medicine analyzed",
		"name", analysis.Name,
		"ingredients", len(analysis.Ingredients),
		"effects", len(analysis.Effects),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return Outcome{Analysis: analysis}
}

// mapResponse copies entity groups into a fresh record, keeping defaults for missing groups
func mapResponse(resp entityReader) entities.MedicineAnalysis {
	analysis := entities.NewMedicineAnalysis()

	if name, ok := resp.First(EntityName); ok && strings.TrimSpace(name) != "" {
		analysis.Name = name
	}
	if dosage, ok := resp.First(EntityDosage); ok && strings.TrimSpace(dosage) != "" {
		analysis.Dosage = dosage
	}

	analysis.Ingredients = resp.All(EntityIngredient)
	analysis.Effects = resp.All(EntityEffect)
	analysis.Interactions = resp.All(EntityInteraction)

	return analysis
}

type entityReader interface {
	First(group string) (string, bool)
	All(group string) []string
}
