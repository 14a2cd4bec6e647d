package dedup

import (
	"math"
	"sort"

	apperrors "github.com/opencouncil/complaint-dedup/pkg/errors"
)

// CosineSimilarity computes dot(a,b) / (|a|*|b|) with float64 accumulation.
// Vectors of different widths indicate an embedder version skew and fail with
// CodeDimensionMismatch. A zero vector is never similar to anything, including
// another zero vector, so either norm being zero yields exactly 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, apperrors.Wrap(CodeDimensionMismatch, "embedding dimensions differ", nil)
	}
	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Rank returns a fresh slice sorted descending by score. The sort is stable:
// equal scores keep their input order, so repeated identical runs produce the
// same ranking.
func Rank(matches []Match) []Match {
	ranked := make([]Match, len(matches))
	copy(ranked, matches)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
