package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("failed to read metric: %v", err)
	}
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	t.Fatalf("unsupported metric type")
	return 0
}

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Post("/v1/compare", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	before := value(t, HTTPRequestTotals.WithLabelValues(http.MethodPost, "/v1/compare", "400"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/compare", nil))

	after := value(t, HTTPRequestTotals.WithLabelValues(http.MethodPost, "/v1/compare", "400"))
	if after-before != 1 {
		t.Errorf("Expected counter to increase by 1, got %v", after-before)
	}
	if got := value(t, HTTPRequestInFlight); got != 0 {
		t.Errorf("Expected no in-flight requests after completion, got %v", got)
	}
}

func TestMetricsMiddlewareUnmatchedRoute(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	before := value(t, HTTPRequestTotals.WithLabelValues(http.MethodGet, "unmatched", "404"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	after := value(t, HTTPRequestTotals.WithLabelValues(http.MethodGet, "unmatched", "404"))

	if after-before != 1 {
		t.Errorf("Expected unmatched counter to increase by 1, got %v", after-before)
	}
}

func TestDomainMetricsRegistered(t *testing.T) {
	NLPRequestsTotal.WithLabelValues(OutcomeSuccess).Inc()
	ComparisonsTotal.WithLabelValues(ResultClear).Inc()

	if value(t, NLPRequestsTotal.WithLabelValues(OutcomeSuccess)) < 1 {
		t.Error("Expected nlp_requests_total{outcome=success} to be incremented")
	}
	if value(t, ComparisonsTotal.WithLabelValues(ResultClear)) < 1 {
		t.Error("Expected comparisons_total{result=clear} to be incremented")
	}
}
