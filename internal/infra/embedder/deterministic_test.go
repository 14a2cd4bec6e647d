package embedder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencouncil/complaint-dedup/internal/domain/dedup"
)

func TestDeterministicEmbedderIsPure(t *testing.T) {
	e := NewDeterministicEmbedder(0)
	require.Equal(t, 32, e.Dimension())

	a, err := e.Embed(context.Background(), "pothole on main st")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "pothole on main st")
	require.NoError(t, err)
	require.Equal(t, a, b)

	other, err := e.Embed(context.Background(), "garbage not collected")
	require.NoError(t, err)
	require.NotEqual(t, a, other)
}

func TestDeterministicEmbedderUnitLength(t *testing.T) {
	e := NewDeterministicEmbedder(16)

	vector, err := e.Embed(context.Background(), "streetlight out on elm ave")
	require.NoError(t, err)
	require.Len(t, vector, 16)

	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	require.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

func TestDeterministicEmbedderSelfSimilarity(t *testing.T) {
	e := NewDeterministicEmbedder(64)

	a, err := e.Embed(context.Background(), "water pressure low since monday")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "water pressure low since monday")
	require.NoError(t, err)

	score, err := dedup.CosineSimilarity(a, b)
	require.NoError(t, err)
	require.InDelta(t, 1.0, score, 1e-6)
}
