// Package models defines the domain types for Inkwell.
package models

import "time"

// Note is a user-owned record with optional image/audio attachments stored on
// a remote media host and referenced by URL.
type Note struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	Audio       string     `json:"audio"`
	Date        *time.Time `json:"date,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Identity is an authenticated caller. Credentials are owned by the external
// auth service; Inkwell only ever sees the resolved identity.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
