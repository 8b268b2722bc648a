package session

import "time"

const DefaultOperationTimeout = 30 * time.Second

type Option func(*Orchestrator)

// WithOperationTimeout bounds every orchestrator operation as a whole.
// Zero disables the bound; the caller's context still applies.
func WithOperationTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.opTimeout = d }
}

// WithLocalDigestCheck toggles the sign-in check of the password against
// the digest stored on the profile row. It is on by default.
func WithLocalDigestCheck(enabled bool) Option {
	return func(o *Orchestrator) { o.verifyLocalDigest = enabled }
}

// WithRevalidateAfter sets how long a restored session is trusted before
// Stale reports true. Zero means forever.
func WithRevalidateAfter(d time.Duration) Option {
	return func(o *Orchestrator) { o.revalidateAfter = d }
}
