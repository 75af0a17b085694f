package models

import "time"

// ListItem is one bucket-list entry owned by a username.
type ListItem struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"` // username of the owning account
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListItemUpdate carries the fields of a targeted item update. Nil fields are
// left untouched.
type ListItemUpdate struct {
	Title *string `json:"title,omitempty"`
	Done  *bool   `json:"done,omitempty"`
}
