package embedcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/opencouncil/complaint-dedup/internal/domain/dedup"
)

// ValkeyCache shares candidate embeddings across service instances through a
// Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "dedup"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements dedup.EmbeddingCache.
func (c *ValkeyCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	cmd := c.client.B().Get().Key(c.entryKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var vector []float32
	if err := json.Unmarshal(payload, &vector); err != nil {
		return nil, false, fmt.Errorf("decode cached embedding: %w", err)
	}
	return vector, true, nil
}

// Put implements dedup.EmbeddingCache.
func (c *ValkeyCache) Put(ctx context.Context, key string, vector []float32, ttl time.Duration) error {
	payload, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}

	value := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = value.Ex(ttl).Build()
	} else {
		cmd = value.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) entryKey(key string) string {
	return c.prefix + ":embedding:" + key
}

var _ dedup.EmbeddingCache = (*ValkeyCache)(nil)
