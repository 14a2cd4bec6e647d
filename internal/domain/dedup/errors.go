package dedup

// Error codes surfaced through pkg/errors.AppError. None of these are retried
// here; the complaint-creation workflow decides whether a failed check blocks
// submission or lets it through.
const (
	// CodeModelLoad means the embedding model could not be loaded. The
	// embedder stays unusable until a later load attempt succeeds.
	CodeModelLoad = "model_load_error"
	// CodeEmbedding means a single embedding call failed and the whole check
	// was aborted.
	CodeEmbedding = "embedding_error"
	// CodeDimensionMismatch signals vectors of different widths were compared,
	// i.e. an embedder/model version skew. A defect, not a runtime condition.
	CodeDimensionMismatch = "dimension_mismatch"
	// CodeInvalidThreshold is returned for thresholds outside [0, 1].
	CodeInvalidThreshold = "invalid_threshold"
	// CodeInvalidInput is returned when the submitted complaint is missing
	// title, description or category.
	CodeInvalidInput = "invalid_input"
	// CodeRepository wraps failures from the complaint repository.
	CodeRepository = "repository_error"
)
