package cache

import (
	"context"
	"sync"
	"time"

	"github.com/giygas/medicine-compare/entities"
)

type memoryEntry struct {
	analysis  entities.MedicineAnalysis
	expiresAt time.Time
}

// MemoryCache is an in-process cache with a fixed TTL. Expired entries are
// hidden from Get and removed by Sweep.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a memory cache; ttl <= 0 keeps entries until swept manually
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of the cached analysis
func (c *MemoryCache) Get(_ context.Context, key string) (entities.MedicineAnalysis, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.expired(entry) {
		return entities.MedicineAnalysis{}, false, nil
	}
	return entry.analysis.Clone(), true, nil
}

// Set stores a copy of the analysis
func (c *MemoryCache) Set(_ context.Context, key string, analysis entities.MedicineAnalysis) error {
	entry := memoryEntry{analysis: analysis.Clone()}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Sweep removes expired entries and returns how many were removed
func (c *MemoryCache) Sweep(_ context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt)
}
