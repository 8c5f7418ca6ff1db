package models

import "time"

// Feedback is a user-submitted feedback entry, kept in its own
// collection for the admin review screen.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Page      string    `json:"page,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
