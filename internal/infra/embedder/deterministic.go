package embedder

import (
	"context"
	"hash/fnv"

	"github.com/opencouncil/complaint-dedup/internal/domain/dedup"
)

// DeterministicEmbedder avoids network calls by hashing text into a normalized
// pseudo-random vector. Used for tests and DSN-less development runs; it keeps
// the embedder contract (fixed width, unit length, pure function of the input)
// without any semantic meaning.
type DeterministicEmbedder struct {
	dim int
}

// NewDeterministicEmbedder constructs the embedder.
func NewDeterministicEmbedder(dim int) *DeterministicEmbedder {
	if dim <= 0 {
		dim = 32
	}
	return &DeterministicEmbedder{dim: dim}
}

// EnsureReady is a no-op: there is no model to load.
func (e *DeterministicEmbedder) EnsureReady(context.Context) error {
	return nil
}

// Embed converts text into a unit-length pseudo-random vector.
func (e *DeterministicEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dim)
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(text))
	seed := hash.Sum64()
	for i := 0; i < e.dim; i++ {
		seed = seed*1099511628211 + 1469598103934665603
		vector[i] = float32(seed%997)/997.0 - 0.5
	}
	return l2Normalize(vector), nil
}

// Dimension reports the fixed vector width.
func (e *DeterministicEmbedder) Dimension() int {
	return e.dim
}

var _ dedup.Embedder = (*DeterministicEmbedder)(nil)
