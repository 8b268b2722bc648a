package models

import "time"

// Session is a live sign-in. It exists in the session cache until it
// expires or the holder signs out.
type Session struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IssuedSession is what a successful SignUp or SignIn hands back.
type IssuedSession struct {
	AccessToken string
	Session     Session
}
