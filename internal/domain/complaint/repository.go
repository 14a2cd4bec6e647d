package complaint

import "context"

// Repository encapsulates read access to the portal's complaint storage.
type Repository interface {
	// FindActiveByCategory returns every open or in-progress complaint in the
	// given category, in stable storage order.
	FindActiveByCategory(ctx context.Context, category Category) ([]Record, error)
}

// SimilaritySearcher is an optional repository capability: storages that index
// complaint embeddings can cap the candidate pool to the closest records
// instead of returning the whole category. Candidates returned here are still
// re-embedded and scored exactly by the caller.
type SimilaritySearcher interface {
	FindSimilarActive(ctx context.Context, category Category, embedding []float32, limit int) ([]Record, error)
}
