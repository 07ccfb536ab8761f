// Package cache stores successful medicine analyses keyed by their input text.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/giygas/medicine-compare/entities"
	"github.com/giygas/medicine-compare/interfaces"
)

var (
	_ interfaces.AnalysisCache = (*MemoryCache)(nil)
	_ interfaces.AnalysisCache = (*RedisCache)(nil)
	_ interfaces.AnalysisCache = NoOpCache{}
)

// GenerateKey builds the cache key from the API version and the trimmed input text
func GenerateKey(version, text string) string {
	h := sha256.New()
	h.Write([]byte(version + ":" + strings.TrimSpace(text)))
	return hex.EncodeToString(h.Sum(nil))
}

// NoOpCache never stores anything
type NoOpCache struct{}

func (NoOpCache) Get(context.Context, string) (entities.MedicineAnalysis, bool, error) {
	return entities.MedicineAnalysis{}, false, nil
}

func (NoOpCache) Set(context.Context, string, entities.MedicineAnalysis) error {
	return nil
}

func (NoOpCache) Sweep(context.Context) int {
	return 0
}

func (NoOpCache) Len() int {
	return 0
}
