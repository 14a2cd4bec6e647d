package embedcache

import (
	"context"
	"sync"
	"time"

	"github.com/opencouncil/complaint-dedup/internal/domain/dedup"
	"github.com/opencouncil/complaint-dedup/pkg/util"
)

type entry struct {
	vector    []float32
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is an in-process dedup.EmbeddingCache used for tests and
// single-instance deployments.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache constructs the cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     util.NowUTC,
	}
}

// Get implements dedup.EmbeddingCache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	vector := make([]float32, len(e.vector))
	copy(vector, e.vector)
	return vector, true, nil
}

// Put implements dedup.EmbeddingCache.
func (c *MemoryCache) Put(_ context.Context, key string, vector []float32, ttl time.Duration) error {
	stored := make([]float32, len(vector))
	copy(stored, vector)

	e := entry{vector: stored}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

var _ dedup.EmbeddingCache = (*MemoryCache)(nil)
