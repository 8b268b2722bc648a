// Package models defines server-side data models persisted in the database
// or the session cache.
package models

import "time"

// Identity is an authentication principal, independent of any profile row.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
