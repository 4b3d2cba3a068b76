// Package categories manages the tags events are filed under. An event may
// carry any number of categories, and deleting a category only detaches it.
package categories

import "time"

// Category is a named tag such as "Politics".
type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	Color       *string   `db:"color" json:"color"`
	Icon        *string   `db:"icon" json:"icon"` // Free-form icon identifier, e.g. "fa-landmark".
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CategoryCreate is the request body for POST /categories.
type CategoryCreate struct {
	Name        string  `json:"name" validate:"required,notblank,max=100"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitnil,hexcolor6"`
	Icon        *string `json:"icon" validate:"omitnil,max=100"`
}

// Columns selected for every category read.
const Columns = `id, name, description, color, icon, created_at`
