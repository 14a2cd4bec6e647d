package dedup

import (
	"context"
	"time"
)

// Embedder turns text into fixed-width normalized vectors.
type Embedder interface {
	// EnsureReady loads the embedding model. Idempotent and safe under
	// concurrent first use: one caller loads, the rest wait on the same
	// attempt. A failed load leaves the embedder retryable.
	EnsureReady(ctx context.Context) error
	// Embed returns the L2-normalized embedding for text. For a fixed model
	// version the result is a pure function of the input.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache stores candidate embeddings keyed by complaint identity and
// text content. Optional: the checker recomputes on every call when no cache
// is wired in, matching the portal's original behavior.
type EmbeddingCache interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Put(ctx context.Context, key string, vector []float32, ttl time.Duration) error
}
