package session

import "github.com/jrsteele09/b2bmarket-portal/authapi"

// Phase is where the session is in its lifecycle
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseRestoring
	PhaseAuthenticated
	PhaseAnonymous
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseRestoring:
		return "restoring"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// State is the in-memory view of the session. Loading is only true while a
// persisted session is being restored.
type State struct {
	User    *authapi.User
	Loading bool
	Phase   Phase
}

// IsAuthenticated is true exactly when a user is present
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// Listener receives every state change
type Listener func(State)

// LoginError carries the user-facing reason a login failed
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	return e.Message
}

func (e *LoginError) Unwrap() error {
	return e.Err
}
