package session

// State is the orchestrator's lifecycle state.
type State int

const (
	StateUnknown State = iota
	StateRestoring
	StateAnonymous
	StateAuthenticating
	StateAuthenticated
	StateLoggingOut
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateRestoring:
		return "restoring"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateLoggingOut:
		return "logging_out"
	default:
		return "invalid"
	}
}

// Stable reports whether s is a resting state, i.e. no operation is
// running.
func (s State) Stable() bool {
	return s == StateUnknown || s == StateAnonymous || s == StateAuthenticated
}
