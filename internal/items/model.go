package items

import "time"

// Item is a to-do entry owned by exactly one user for its entire lifetime.
// Timestamps are persisted but never rendered.
type Item struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Done        bool      `json:"done" db:"done"`
	UserID      int64     `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
}
