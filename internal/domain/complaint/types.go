package complaint

import (
	"time"

	"github.com/google/uuid"
)

// Category buckets complaints by the kind of civic issue reported.
type Category string

const (
	CategoryPotholes     Category = "potholes"
	CategoryGarbage      Category = "garbage"
	CategoryStreetlights Category = "streetlights"
	CategoryWaterSupply  Category = "water_supply"
	CategoryNoise        Category = "noise"
	CategoryOther        Category = "other"
)

// Status tracks a complaint through its lifecycle.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Active reports whether the complaint is still worth merging duplicates into.
func (s Status) Active() bool {
	return s == StatusOpen || s == StatusInProgress
}

// Record carries the complaint fields the duplicate checker reads. It is a
// projection of the portal's complaint row, never written back.
type Record struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
