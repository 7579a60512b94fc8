// Package model defines database models
package model

import "time"

// Download is one row per fetch attempt. Rows are append-only: a re-download
// of the same URL creates a new row instead of touching the old one, and
// expired files only flip the status while the row stays around as history.
type Download struct {
	ID       uint   `gorm:"primaryKey;autoIncrement;index" json:"id"`
	URL      string `gorm:"not null" json:"url"`
	Filename string `json:"filename"`

	// Authoritative location of the backing file while the status is ready
	Filepath string `json:"-"`

	Mode   Mode   `gorm:"default:video" json:"mode"`
	Status Status `gorm:"default:ready" json:"status"`

	// Set only when Status is StatusError
	Error string `json:"error,omitzero"`

	// 0 means the file is kept forever
	AutoCleanHours int `json:"auto_clean_hours"`

	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitzero"`
}
