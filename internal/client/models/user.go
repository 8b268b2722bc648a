package models

import "time"

// User is the application profile row, keyed by email. It is distinct from
// the backend's authentication identity.
type User struct {
	ID           int64      `json:"user_id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"password_hash"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// Identity is the backend authentication identity.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// BackendSession is what the auth gateway returns on a successful sign-up
// or sign-in.
type BackendSession struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Identity    Identity  `json:"identity"`
}

// Session is the locally persisted proof that a user is logged in. It is
// only written once both the backend identity and the profile resolved.
type Session struct {
	Identity    Identity  `json:"identity"`
	AccessToken string    `json:"access_token,omitempty"`
	User        User      `json:"user"`
	SavedAt     time.Time `json:"saved_at"`
}
