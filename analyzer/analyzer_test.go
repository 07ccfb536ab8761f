package analyzer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/giygas/medicine-compare/cache"
	"github.com/giygas/medicine-compare/data"
	"github.com/giygas/medicine-compare/entities"
	"github.com/giygas/medicine-compare/health"
	"github.com/giygas/medicine-compare/witclient"
)

// ============================================================================
// MOCKS
// ============================================================================

type mockExtractor struct {
	resp  *witclient.Response
	err   error
	calls atomic.Int32
	last  string
}

func (m *mockExtractor) Extract(ctx context.Context, text string) (*witclient.Response, error) {
	m.calls.Add(1)
	m.last = text
	return m.resp, m.err
}

func entity(values ...string) []witclient.Entity {
	out := make([]witclient.Entity, len(values))
	for i, v := range values {
		out[i] = witclient.Entity{Value: witclient.EntityText(v), Body: v}
	}
	return out
}

func ginsengResponse() *witclient.Response {
	return &witclient.Response{Entities: map[string][]witclient.Entity{
		EntityName:        entity("Ginseng tonic", "ignored"),
		EntityIngredient:  entity("ginseng", "licorice"),
		EntityEffect:      entity("raise blood pressure"),
		EntityInteraction: entity("warfarin"),
		EntityDosage:      entity("10ml twice daily"),
	}}
}

// ============================================================================
// MAPPING
// ============================================================================

func TestAnalyzeMapsEntities(t *testing.T) {
	ext := &mockExtractor{resp: ginsengResponse()}
	a := New(ext)

	got := a.Analyze(context.Background(), "人参 tonic")

	if ext.last != "人参 tonic" {
		t.Errorf("Expected text to be forwarded, got %q", ext.last)
	}
	if got.Name != "Ginseng tonic" {
		t.Errorf("Expected first name value, got %q", got.Name)
	}
	if len(got.Ingredients) != 2 || got.Ingredients[0] != "ginseng" || got.Ingredients[1] != "licorice" {
		t.Errorf("Expected ingredients in order, got %v", got.Ingredients)
	}
	if len(got.Effects) != 1 || got.Effects[0] != "raise blood pressure" {
		t.Errorf("Unexpected effects: %v", got.Effects)
	}
	if len(got.Interactions) != 1 || got.Interactions[0] != "warfarin" {
		t.Errorf("Unexpected interactions: %v", got.Interactions)
	}
	if got.Dosage != "10ml twice daily" {
		t.Errorf("Unexpected dosage: %q", got.Dosage)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("Expected no warnings on success, got %v", got.Warnings)
	}
}

func TestAnalyzeMissingGroupsUseDefaults(t *testing.T) {
	a := New(&mockExtractor{resp: &witclient.Response{}})

	got := a.Analyze(context.Background(), "")

	if got.Name != entities.UnknownMedicineName {
		t.Errorf("Expected %q, got %q", entities.UnknownMedicineName, got.Name)
	}
	if got.Dosage != entities.DosageNotSpecified {
		t.Errorf("Expected %q, got %q", entities.DosageNotSpecified, got.Dosage)
	}
	for name, list := range map[string][]string{
		"ingredients":  got.Ingredients,
		"effects":      got.Effects,
		"interactions": got.Interactions,
		"warnings":     got.Warnings,
	} {
		if list == nil || len(list) != 0 {
			t.Errorf("Expected empty non-nil %s, got %#v", name, list)
		}
	}
}

// ============================================================================
// FAILURES
// ============================================================================

func TestAnalyzeFailureReturnsSentinel(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"transport", errors.New("dial tcp: connection refused")},
		{"http status", &witclient.APIError{StatusCode: http.StatusUnauthorized}},
		{"parse", errors.New("decode response: unexpected EOF")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(&mockExtractor{err: tt.err})

			outcome := a.AnalyzeOutcome(context.Background(), "ginseng")
			if outcome.OK() {
				t.Fatal("Expected failed outcome")
			}
			if !errors.Is(outcome.Err, tt.err) {
				t.Errorf("Expected outcome to keep the cause, got %v", outcome.Err)
			}

			got := a.Analyze(context.Background(), "ginseng")
			if !got.Failed() {
				t.Errorf("Expected failure sentinel, got %+v", got)
			}
			if len(got.Warnings) != 1 || got.Warnings[0] != entities.AnalysisRetryNotice {
				t.Errorf("Expected single retry warning, got %v", got.Warnings)
			}
			if len(got.Ingredients)+len(got.Effects)+len(got.Interactions) != 0 {
				t.Errorf("Expected empty lists, got %+v", got)
			}
			if got.Dosage != entities.DosageNotSpecified {
				t.Errorf("Expected dosage sentinel, got %q", got.Dosage)
			}
		})
	}
}

func TestAnalyzeAgainstHTTPServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "broken" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"entities":{"medicine:ingredient":[{"value":"aspirin"}]}}`))
	}))
	defer server.Close()

	a := New(witclient.NewClient("k", witclient.WithBaseURL(server.URL), witclient.WithTimeout(time.Second)))

	if got := a.Analyze(context.Background(), "aspirin 100mg"); len(got.Ingredients) != 1 || got.Ingredients[0] != "aspirin" {
		t.Errorf("Expected aspirin ingredient, got %+v", got)
	}
	if got := a.Analyze(context.Background(), "broken"); !got.Failed() {
		t.Errorf("Expected failure sentinel for 502, got %+v", got)
	}
}

// ============================================================================
// CACHE AND STATS
// ============================================================================

func TestAnalyzeCachesSuccessOnly(t *testing.T) {
	ctx := context.Background()
	memory := cache.NewMemoryCache(time.Minute)
	ext := &mockExtractor{resp: ginsengResponse()}
	stats := data.NewStatsContainer()
	a := New(ext, WithCache(memory), WithStats(stats), WithCacheVersion("v1"))

	first := a.AnalyzeOutcome(ctx, "ginseng")
	second := a.AnalyzeOutcome(ctx, "  ginseng  ")

	if ext.calls.Load() != 1 {
		t.Errorf("Expected cache hit to skip the extractor, got %d calls", ext.calls.Load())
	}
	if first.Cached || !second.Cached {
		t.Errorf("Expected only second outcome cached, got %v/%v", first.Cached, second.Cached)
	}
	if second.Analysis.Name != first.Analysis.Name {
		t.Errorf("Cached analysis differs: %q vs %q", second.Analysis.Name, first.Analysis.Name)
	}

	ext.err = errors.New("down")
	a.Analyze(ctx, "licorice")
	a.Analyze(ctx, "licorice")
	if ext.calls.Load() != 3 {
		t.Errorf("Expected failures not to be cached, got %d calls", ext.calls.Load())
	}

	s := stats.GetStats()
	if s.CacheHits != 1 || s.TotalRequests != 3 || s.TotalFailures != 2 || s.ConsecutiveFailures != 2 {
		t.Errorf("Unexpected stats: %+v", s)
	}
}

func TestAnalyzeCancelledContextIsNotAnUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entities":{"medicine:ingredient":[{"value":"aspirin"}]}}`))
	}))
	defer server.Close()

	stats := data.NewStatsContainer()
	a := New(witclient.NewClient("k", witclient.WithBaseURL(server.URL)), WithStats(stats))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < health.UnhealthyAfterFailures; i++ {
		outcome := a.AnalyzeOutcome(ctx, "aspirin")
		if outcome.OK() || !outcome.Analysis.Failed() {
			t.Fatalf("Expected failure sentinel for cancelled context, got %+v", outcome)
		}
		if !errors.Is(outcome.Err, context.Canceled) {
			t.Errorf("Expected context.Canceled cause, got %v", outcome.Err)
		}
	}

	s := stats.GetStats()
	if s.TotalRequests != 0 || s.TotalFailures != 0 || s.ConsecutiveFailures != 0 {
		t.Errorf("Cancelled requests must not touch upstream stats, got %+v", s)
	}

	status, _, code := health.NewHealthChecker(stats, cache.NoOpCache{}, true).HealthCheck()
	if status != "healthy" || code != http.StatusOK {
		t.Errorf("Expected healthy after cancelled requests, got %s/%d", status, code)
	}

	// a real failure after cancellations still counts
	if got := a.Analyze(context.Background(), "aspirin"); got.Failed() {
		t.Errorf("Expected success with a live context, got %+v", got)
	}
	if s := stats.GetStats(); s.TotalRequests != 1 || s.ConsecutiveFailures != 0 {
		t.Errorf("Unexpected stats after live request: %+v", s)
	}
}

func TestAnalyzeUpstreamErrorWithLiveContextCounts(t *testing.T) {
	stats := data.NewStatsContainer()
	a := New(&mockExtractor{err: context.DeadlineExceeded}, WithStats(stats))

	// the provider timed out on its own, the caller is still waiting
	a.Analyze(context.Background(), "ginseng")

	if s := stats.GetStats(); s.TotalFailures != 1 || s.ConsecutiveFailures != 1 {
		t.Errorf("Expected provider timeout to count as failure, got %+v", s)
	}
}

type failingCache struct{ cache.NoOpCache }

func (failingCache) Get(context.Context, string) (entities.MedicineAnalysis, bool, error) {
	return entities.MedicineAnalysis{}, false, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, entities.MedicineAnalysis) error {
	return errors.New("cache down")
}

func TestAnalyzeIgnoresCacheErrors(t *testing.T) {
	a := New(&mockExtractor{resp: ginsengResponse()}, WithCache(failingCache{}))

	if got := a.Analyze(context.Background(), "ginseng"); got.Failed() {
		t.Error("Cache errors must not fail the analysis")
	}
}

func TestAnalyzeResultsAreIndependent(t *testing.T) {
	a := New(&mockExtractor{resp: ginsengResponse()}, WithCache(cache.NewMemoryCache(time.Minute)))

	first := a.Analyze(context.Background(), "ginseng")
	first.Ingredients[0] = "mutated"

	second := a.Analyze(context.Background(), "ginseng")
	if second.Ingredients[0] != "ginseng" {
		t.Errorf("Expected caller mutation not to leak, got %v", second.Ingredients)
	}
}
