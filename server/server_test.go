package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/medicine-compare/config"
	"github.com/go-chi/chi/v5/middleware"
)

// stubHandler implements interfaces.HTTPHandler and records which endpoint was hit
type stubHandler struct {
	hit string
}

func (s *stubHandler) AnalyzeMedicine(w http.ResponseWriter, r *http.Request) {
	s.hit = "analyze"
	w.WriteHeader(http.StatusOK)
}

func (s *stubHandler) CompareMedicines(w http.ResponseWriter, r *http.Request) {
	s.hit = "compare"
	w.WriteHeader(http.StatusOK)
}

func (s *stubHandler) ServeGuide(w http.ResponseWriter, r *http.Request) {
	s.hit = "guide"
	w.WriteHeader(http.StatusOK)
}

func (s *stubHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	s.hit = "health"
	w.WriteHeader(http.StatusOK)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "8080",
		Address:           "localhost",
		Env:               config.EnvTest,
		LogLevel:          "error",
		MaxRequestBody:    65536,
		MaxHeaderSize:     1048576,
		NLPTimeout:        time.Second,
		AllowedOrigins:    []string{"*"},
		RateLimitRate:     1000,
		RateLimitCapacity: 100000,
	}
}

func TestNewServer(t *testing.T) {
	s := NewServer(testConfig(), &stubHandler{})

	if s.server.Addr != "localhost:8080" {
		t.Errorf("Expected address localhost:8080, got %s", s.server.Addr)
	}
	if s.server.WriteTimeout <= s.server.ReadTimeout {
		t.Error("Write timeout should leave room for the NLP provider")
	}
	if s.RateLimiter() == nil {
		t.Error("Expected rate limiter to be created")
	}
}

func TestSetupRoutes(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		expected string
	}{
		{"POST", "/v1/analyze", "analyze"},
		{"POST", "/v1/compare", "compare"},
		{"GET", "/v1/guide", "guide"},
		{"GET", "/health", "health"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			handler := &stubHandler{}
			s := NewServer(testConfig(), handler)

			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			if rr.Code != http.StatusOK {
				t.Errorf("Expected 200, got %d", rr.Code)
			}
			if handler.hit != tt.expected {
				t.Errorf("Expected %s handler, got %q", tt.expected, handler.hit)
			}
		})
	}
}

func TestSetupRoutesMethodNotAllowed(t *testing.T) {
	s := NewServer(testConfig(), &stubHandler{})

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/v1/compare", nil))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer(testConfig(), &stubHandler{})

	// generate one labelled sample first
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/guide", nil))

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "http_request_total") {
		t.Error("Expected http_request_total in metrics output")
	}
}

func TestSetupMiddleware(t *testing.T) {
	s := NewServer(testConfig(), &stubHandler{})

	s.router.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		if middleware.GetReqID(r.Context()) == "" {
			t.Error("RequestID should be available in request context")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("Expected rate limit headers")
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected CORS header, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRecovererReturns500(t *testing.T) {
	s := NewServer(testConfig(), &stubHandler{})
	s.router.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/panic", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rr.Code)
	}
}

func TestBlockDirectAccessOnlyInProduction(t *testing.T) {
	tests := []struct {
		env      config.Environment
		expected int
	}{
		{config.EnvTest, http.StatusOK},
		{config.EnvDevelopment, http.StatusOK},
		{config.EnvStaging, http.StatusForbidden},
		{config.EnvProduction, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.env.String(), func(t *testing.T) {
			cfg := testConfig()
			cfg.Env = tt.env
			s := NewServer(cfg, &stubHandler{})

			req := httptest.NewRequest("GET", "/v1/guide", nil)
			req.RemoteAddr = "203.0.113.9:4444"
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, req)

			if rr.Code != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, rr.Code)
			}
		})
	}
}

func TestServerLifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = "0"
	s := NewServer(cfg, &stubHandler{})

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Server shutdown should not error: %v", err)
	}

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Expected ErrServerClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Server should have shut down within 1 second")
	}
}
