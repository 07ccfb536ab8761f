package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/giygas/medicine-compare/cache"
	"github.com/giygas/medicine-compare/entities"
	"github.com/giygas/medicine-compare/health"
	"github.com/giygas/medicine-compare/interfaces"
)

// mockStatsStore for testing scheduler
type mockStatsStore struct {
	stats interfaces.NLPStats
}

func (m *mockStatsStore) RecordSuccess()  {}
func (m *mockStatsStore) RecordFailure()  {}
func (m *mockStatsStore) RecordCacheHit() {}

func (m *mockStatsStore) GetStats() interfaces.NLPStats {
	return m.stats
}

func (m *mockStatsStore) GetServerStartTime() time.Time {
	return time.Time{}
}

type mockCleaner struct {
	calls atomic.Int32
}

func (m *mockCleaner) Cleanup() int {
	m.calls.Add(1)
	return 7
}

func TestNewScheduler(t *testing.T) {
	s := NewScheduler(cache.NoOpCache{}, &mockStatsStore{}, nil)

	if s == nil {
		t.Fatal("NewScheduler returned nil")
	}
	if s.scheduler == nil {
		t.Error("Expected gocron scheduler to be initialized")
	}
}

func TestStartRegistersJobs(t *testing.T) {
	tests := []struct {
		name     string
		limiter  BucketCleaner
		expected int
	}{
		{"with limiter", &mockCleaner{}, 3},
		{"without limiter", nil, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(cache.NoOpCache{}, &mockStatsStore{}, tt.limiter)
			if err := s.Start(); err != nil {
				t.Fatalf("Start failed: %v", err)
			}
			defer s.Stop()

			if got := len(s.scheduler.Jobs()); got != tt.expected {
				t.Errorf("Expected %d jobs, got %d", tt.expected, got)
			}
			if !s.scheduler.IsRunning() {
				t.Error("Expected scheduler to be running")
			}
		})
	}
}

func TestStartRunsJobsImmediately(t *testing.T) {
	cleaner := &mockCleaner{}
	s := NewScheduler(cache.NoOpCache{}, &mockStatsStore{}, cleaner)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for cleaner.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if cleaner.calls.Load() == 0 {
		t.Error("Expected limiter cleanup to run on start")
	}
}

func TestSweepCache(t *testing.T) {
	memory := cache.NewMemoryCache(10 * time.Millisecond)
	_ = memory.Set(context.Background(), "k", entities.NewMedicineAnalysis())
	time.Sleep(20 * time.Millisecond)

	s := NewScheduler(memory, &mockStatsStore{}, nil)
	s.sweepCache()

	if memory.Len() != 0 {
		t.Errorf("Expected expired entry to be swept, %d left", memory.Len())
	}
}

func TestMonitorHealth(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		stats    interfaces.NLPStats
		expected bool
	}{
		{"no traffic", interfaces.NLPStats{}, false},
		{"healthy", interfaces.NLPStats{TotalRequests: 10, LastSuccess: now.Add(-time.Minute)}, false},
		{
			"failure streak",
			interfaces.NLPStats{ConsecutiveFailures: health.DegradedAfterFailures, LastFailure: now},
			true,
		},
		{
			"stale success",
			interfaces.NLPStats{TotalFailures: 1, ConsecutiveFailures: 1, LastSuccess: now.Add(-2 * time.Hour), LastFailure: now.Add(-time.Minute)},
			true,
		},
		{
			"old success but no failure since",
			interfaces.NLPStats{TotalFailures: 1, LastSuccess: now.Add(-2 * time.Hour), LastFailure: now.Add(-3 * time.Hour)},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(cache.NoOpCache{}, &mockStatsStore{stats: tt.stats}, nil)
			s.now = func() time.Time { return now }

			if got := s.monitorHealth(); got != tt.expected {
				t.Errorf("monitorHealth() = %v, want %v", got, tt.expected)
			}
		})
	}
}
