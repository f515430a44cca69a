package models

import "time"

// Insight represents a generated financial insight for a user.
// Rows are append-only: every generation produces a new insight and existing
// rows are never updated.
type Insight struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"` // At most 200 characters after normalization
	Content     string    `json:"content"`
	IsAutomated bool      `json:"is_automated"` // true for scheduled runs, false for on-demand
	CreatedAt   time.Time `json:"created_at"`
}
