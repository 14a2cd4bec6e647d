package dedup

import "time"

// Config holds runtime knobs for the duplicate checker.
type Config struct {
	// DefaultThreshold applies when a request does not carry its own. The 0.8
	// default is a policy parameter, not a validated truth; keep it tunable.
	DefaultThreshold float64
	// MaxConcurrency bounds the candidate embedding fan-out. Values below 1
	// fall back to sequential embedding.
	MaxConcurrency int
	// CacheTTL controls how long cached candidate embeddings live. Only
	// relevant when an embedding cache is wired in.
	CacheTTL time.Duration
	// PrefilterLimit caps the candidate pool via the repository's vector
	// index when it has one. 0 disables the prefilter and scores the whole
	// active category, matching the portal's original behavior.
	PrefilterLimit int
}
