package models

import "time"

// Notification is a server-originated message mirrored locally for display.
// Notifications are never mutated offline, so the type stays outside the
// Entity interface and the pending queue.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}
