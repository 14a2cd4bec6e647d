package dedup

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/opencouncil/complaint-dedup/pkg/errors"
)

func TestCosineSimilarityIdenticalVectors(t *testing.T) {
	v := []float32{0.1, 0.5, -0.3, 0.8}

	score, err := CosineSimilarity(v, v)
	require.NoError(t, err)
	require.InDelta(t, 1.0, score, 1e-6)
}

func TestCosineSimilaritySymmetry(t *testing.T) {
	a := []float32{0.3, -0.2, 0.9}
	b := []float32{-0.5, 0.4, 0.1}

	ab, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	ba, err := CosineSimilarity(b, a)
	require.NoError(t, err)
	require.Equal(t, ab, ba)
}

func TestCosineSimilarityBounded(t *testing.T) {
	pairs := [][2][]float32{
		{{1, 0}, {0, 1}},
		{{1, 0}, {-1, 0}},
		{{0.7, 0.7}, {0.7, 0.7}},
		{{1, 2, 3}, {-3, -2, -1}},
	}

	for _, pair := range pairs {
		score, err := CosineSimilarity(pair[0], pair[1])
		require.NoError(t, err)
		require.GreaterOrEqual(t, score, -1.0-1e-9)
		require.LessOrEqual(t, score, 1.0+1e-9)
	}
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	zero := []float32{0, 0, 0}
	v := []float32{0.2, 0.4, 0.6}

	score, err := CosineSimilarity(zero, v)
	require.NoError(t, err)
	require.Equal(t, 0.0, score)

	score, err = CosineSimilarity(zero, zero)
	require.NoError(t, err)
	require.Equal(t, 0.0, score)
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeDimensionMismatch))
}

func TestRankDescending(t *testing.T) {
	matches := []Match{
		{Score: 0.42},
		{Score: 0.91},
		{Score: 0.77},
	}

	ranked := Rank(matches)
	require.Len(t, ranked, 3)
	require.Equal(t, 0.91, ranked[0].Score)
	require.Equal(t, 0.77, ranked[1].Score)
	require.Equal(t, 0.42, ranked[2].Score)

	// input order untouched
	require.Equal(t, 0.42, matches[0].Score)
}

func TestRankStableOnTies(t *testing.T) {
	matches := make([]Match, 4)
	for i := range matches {
		matches[i].Score = 0.8
		matches[i].Complaint.Title = string(rune('a' + i))
	}

	ranked := Rank(matches)
	for i := range ranked {
		require.Equal(t, matches[i].Complaint.Title, ranked[i].Complaint.Title)
	}
}

func TestRankEmpty(t *testing.T) {
	require.Empty(t, Rank(nil))
	require.Empty(t, Rank([]Match{}))
}
