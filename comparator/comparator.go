// Package comparator cross-checks a Chinese and a Western medicine analysis
// against static conflict tables.
package comparator

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/giygas/medicine-compare/entities"
	"github.com/giygas/medicine-compare/interactions"
	"github.com/giygas/medicine-compare/interfaces"
	"github.com/giygas/medicine-compare/logging"
	"github.com/giygas/medicine-compare/metrics"
)

var _ interfaces.Comparator = (*Comparator)(nil)

var (
	cautionWarnings = []string{
		"Potential interactions were found between these medicines.",
		"Consult a doctor or pharmacist before taking them together.",
		"Monitor for unusual symptoms and seek medical help if they occur.",
	}

	cautionRecommendations = []string{
		"Take the medicines at least 2 hours apart unless instructed otherwise.",
		"Ask your doctor whether dosages need to be adjusted.",
		"Keep a record of symptoms and report them at your next visit.",
	}

	clearWarnings = []string{
		"No major interactions were found between these medicines.",
		"This comparison only covers known interactions in the reference table.",
		"Always follow the dosage instructions on the label.",
	}

	clearRecommendations = []string{
		"The medicines can generally be taken as directed.",
		"Space Chinese and Western medicines at least 2 hours apart as a precaution.",
		"Consult a healthcare professional if you have any concerns.",
	}
)

// Comparator runs both analyses concurrently and joins them before detection
type Comparator struct {
	analyzer    interfaces.Analyzer
	ingredients interfaces.ConflictTable
	effects     interfaces.ConflictTable
}

// New creates a Comparator using the built-in ingredient and effect tables
func New(analyzer interfaces.Analyzer) *Comparator {
	return NewWithTables(analyzer, interactions.IngredientTable(), interactions.EffectTable())
}

// NewWithTables creates a Comparator with custom tables
func NewWithTables(analyzer interfaces.Analyzer, ingredients, effects interfaces.ConflictTable) *Comparator {
	return &Comparator{
		analyzer:    analyzer,
		ingredients: ingredients,
		effects:     effects,
	}
}

// Compare analyzes both descriptions and reports conflicts between them.
// It always returns a complete result; a panic during comparison yields
// the failed result instead.
func (c *Comparator) Compare(ctx context.Context, chineseText, westernText string) (result entities.ComparisonResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Comparison failed",
				"panic", r,
				"stack", string(debug.Stack()),
			)
			metrics.ComparisonsTotal.WithLabelValues(metrics.ResultFailed).Inc()
			result = entities.FailedComparisonResult()
		}
	}()

	chinese, western := c.analyzeBoth(ctx, chineseText, westernText)

	comparison := entities.Comparison{
		IngredientConflicts: crossJoin(c.ingredients, chinese.Ingredients, western.Ingredients),
		EffectInteractions:  crossJoin(c.effects, chinese.Effects, western.Effects),
	}

	label := metrics.ResultClear
	if comparison.HasConflicts() {
		label = metrics.ResultCaution
		comparison.Warnings = cloneBlock(cautionWarnings)
		comparison.Recommendations = cloneBlock(cautionRecommendations)
	} else {
		comparison.Warnings = cloneBlock(clearWarnings)
		comparison.Recommendations = cloneBlock(clearRecommendations)
	}
	metrics.ComparisonsTotal.WithLabelValues(label).Inc()

	logging.Debug("Comparison completed",
		"result", label,
		"ingredient_conflicts", len(comparison.IngredientConflicts),
		"effect_interactions", len(comparison.EffectInteractions),
	)

	return entities.ComparisonResult{
		ChineseAnalysis: chinese,
		WesternAnalysis: western,
		Comparison:      comparison,
	}
}

// analyzeBoth runs the two analyses concurrently. A panic in either goroutine
// is re-raised on the calling goroutine so Compare can recover it.
func (c *Comparator) analyzeBoth(ctx context.Context, chineseText, westernText string) (entities.MedicineAnalysis, entities.MedicineAnalysis) {
	var (
		wg       sync.WaitGroup
		results  [2]entities.MedicineAnalysis
		panicked [2]any
	)

	texts := [2]string{chineseText, westernText}
	for i := range texts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() {
				panicked[i] = recover()
			}()
			results[i] = c.analyzer.Analyze(ctx, texts[i])
		}(i)
	}
	wg.Wait()

	for _, p := range panicked {
		if p != nil {
			panic(p)
		}
	}
	return results[0], results[1]
}

// crossJoin checks every (a, b) pair, exactly len(as)*len(bs) lookups.
// Only a is used as the table key.
func crossJoin(table interfaces.ConflictTable, as, bs []string) []string {
	found := []string{}
	for _, a := range as {
		for _, b := range bs {
			if table.Conflicts(a, b) {
				found = append(found, fmt.Sprintf("%s may interact with %s",
					interactions.Normalize(a), interactions.Normalize(b)))
			}
		}
	}
	return found
}

func cloneBlock(block []string) []string {
	out := make([]string, len(block))
	copy(out, block)
	return out
}
