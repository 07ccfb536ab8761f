package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giygas/medicine-compare/analyzer"
	"github.com/giygas/medicine-compare/cache"
	"github.com/giygas/medicine-compare/comparator"
	"github.com/giygas/medicine-compare/config"
	"github.com/giygas/medicine-compare/data"
	"github.com/giygas/medicine-compare/handlers"
	"github.com/giygas/medicine-compare/health"
	"github.com/giygas/medicine-compare/interfaces"
	"github.com/giygas/medicine-compare/logging"
	"github.com/giygas/medicine-compare/scheduler"
	"github.com/giygas/medicine-compare/server"
	"github.com/giygas/medicine-compare/validation"
	"github.com/giygas/medicine-compare/witclient"
	"github.com/joho/godotenv"
)

func main() {
	loadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg)
	defer func() {
		_ = logging.DefaultLoggingService.Close()
	}()

	stats := data.NewStatsContainer()
	stats.SetServerStartTime(time.Now())

	analysisCache, closeCache := newAnalysisCache(cfg)
	defer closeCache()

	client := witclient.NewClient(cfg.WitAPIKey,
		witclient.WithBaseURL(cfg.WitAPIURL),
		witclient.WithVersion(cfg.WitAPIVersion),
		witclient.WithTimeout(cfg.NLPTimeout),
	)

	medicineAnalyzer := analyzer.New(client,
		analyzer.WithCache(analysisCache),
		analyzer.WithStats(stats),
		analyzer.WithCacheVersion(client.Version()),
	)
	medicineComparator := comparator.New(medicineAnalyzer)

	httpHandler := handlers.NewHTTPHandler(
		medicineAnalyzer,
		medicineComparator,
		validation.NewInputValidator(),
		health.NewHealthChecker(stats, analysisCache, cfg.WitAPIKey != ""),
		cfg.MaxRequestBody,
	)

	srv := server.NewServer(cfg, httpHandler)

	jobs := scheduler.NewScheduler(analysisCache, stats, srv.RateLimiter())
	if err := jobs.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	jobs.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown failed", "error", err)
	}
}

// loadEnvFile reads .env from the working directory, falling back to the executable's directory
func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		return
	}

	ex, err := os.Executable()
	if err != nil {
		return
	}
	exPath := filepath.Dir(ex)
	if err := godotenv.Load(filepath.Join(exPath, ".env")); err == nil {
		// log files and relative paths follow the .env location
		_ = os.Chdir(exPath)
	}
}

// newAnalysisCache picks Redis when configured, the in-memory cache otherwise.
// A zero TTL disables caching.
func newAnalysisCache(cfg *config.Config) (interfaces.AnalysisCache, func()) {
	noop := func() {}

	if cfg.CacheTTL == 0 {
		logging.Info("Analysis cache disabled")
		return cache.NoOpCache{}, noop
	}

	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err == nil {
			logging.Info("Using Redis analysis cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
			return redisCache, func() {
				if err := redisCache.Close(); err != nil {
					logging.Warn("Failed to close Redis client", "error", err)
				}
			}
		}
		logging.Warn("Redis unavailable, falling back to in-memory cache", "addr", cfg.RedisAddr, "error", err)
	}

	logging.Info("Using in-memory analysis cache", "ttl", cfg.CacheTTL.String())
	return cache.NewMemoryCache(cfg.CacheTTL), noop
}
