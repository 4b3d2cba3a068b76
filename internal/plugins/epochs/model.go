// Package epochs manages named time ranges. Every event belongs to exactly
// one epoch, so an epoch cannot be deleted while events still reference it.
package epochs

import "time"

// Epoch is a named span of history, e.g. "Cold War".
type Epoch struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	Color       *string   `db:"color" json:"color"` // #RRGGBB
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// EpochCreate is the request body for POST /epochs. Dates are validated as
// timestamps here and parsed by the service.
type EpochCreate struct {
	Name        string  `json:"name" validate:"required,notblank,max=100"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date" validate:"required,timestamp"`
	EndDate     string  `json:"end_date" validate:"required,timestamp"`
	Color       *string `json:"color" validate:"omitnil,hexcolor6"`
}

// Columns selected for every epoch read.
const Columns = `id, name, description, start_date, end_date, color, created_at`
