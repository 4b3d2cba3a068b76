// Package events manages the timeline itself: dated occurrences that belong
// to one epoch and carry any number of categories. Reads always resolve the
// epoch and categories so clients never need a second round trip.
package events

import (
	"time"

	"github.com/keyxmakerx/chronospace/internal/plugins/categories"
	"github.com/keyxmakerx/chronospace/internal/plugins/epochs"
)

// DefaultImportance applies when a create request omits importance.
const DefaultImportance = 1

// Event is a point-in-time occurrence on the timeline.
type Event struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Date        time.Time `db:"date" json:"date"`
	Location    *string   `db:"location" json:"location"`
	Importance  int       `db:"importance" json:"importance"` // 1 (minor) to 5 (pivotal).
	MediaURL    *string   `db:"media_url" json:"media_url"`
	EpochID     int64     `db:"epoch_id" json:"epoch_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Resolved on read.
	Epoch       epochs.Epoch          `db:"epoch" json:"epoch"`
	Categories  []categories.Category `db:"-" json:"categories"`
	CategoryIDs []int64               `db:"-" json:"category_ids"` // Derived from Categories.
}

// EventCreate is the request body for POST /events. Unknown category ids
// are dropped rather than rejected.
type EventCreate struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description"`
	Date        string  `json:"date" validate:"required,timestamp"`
	Location    *string `json:"location" validate:"omitnil,max=255"`
	Importance  *int    `json:"importance" validate:"omitnil,min=1,max=5"`
	MediaURL    *string `json:"media_url" validate:"omitnil,max=512"`
	EpochID     int64   `json:"epoch_id" validate:"required,min=1"`
	CategoryIDs []int64 `json:"category_ids"`
}

// ListFilter narrows GET /events. Set fields are ANDed together; the date
// bounds are inclusive.
type ListFilter struct {
	CategoryID *int64
	EpochID    *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Skip       int
	Limit      int
}
