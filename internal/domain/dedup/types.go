package dedup

import (
	"github.com/opencouncil/complaint-dedup/internal/domain/complaint"
)

// Request describes a complaint about to be created, before it has an ID.
type Request struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    complaint.Category `json:"category"`
	// Threshold overrides the configured default when set. Must be in [0, 1].
	Threshold *float64 `json:"threshold,omitempty"`
}

// Match pairs an existing complaint with its similarity to the new one.
type Match struct {
	Complaint complaint.Record `json:"complaint"`
	Score     float64          `json:"score"`
}

// Verdict is the outcome of a duplicate check. It is returned to the caller
// and never persisted.
type Verdict struct {
	IsDuplicate       bool    `json:"isDuplicate"`
	SimilarComplaints []Match `json:"similarComplaints"`
	HighestSimilarity float64 `json:"highestSimilarity"`
}
