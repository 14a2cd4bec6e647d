package complaintrepo

import (
	"context"
	"sync"

	"github.com/opencouncil/complaint-dedup/internal/domain/complaint"
)

// MemoryRepository is an in-memory complaint.Repository used for tests and
// DSN-less development runs. Records keep insertion order, which makes the
// duplicate checker's tie-breaking reproducible.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []complaint.Record
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Add seeds a complaint record.
func (r *MemoryRepository) Add(record complaint.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

// FindActiveByCategory implements complaint.Repository.
func (r *MemoryRepository) FindActiveByCategory(_ context.Context, category complaint.Category) ([]complaint.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []complaint.Record
	for _, record := range r.records {
		if record.Category == category && record.Status.Active() {
			out = append(out, record)
		}
	}
	return out, nil
}

var _ complaint.Repository = (*MemoryRepository)(nil)
