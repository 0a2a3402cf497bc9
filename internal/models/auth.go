package models

// SessionStatus names the states of the session state machine.
type SessionStatus string

const (
	StatusAnonymous      SessionStatus = "anonymous"
	StatusAuthenticating SessionStatus = "authenticating"
	StatusAuthenticated  SessionStatus = "authenticated"
)

// AuthState is the snapshot of who is signed in. An authenticated snapshot
// always carries a user; an anonymous one never does.
type AuthState struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	User            *User `json:"user"`
	Loading         bool  `json:"loading"`
}

// AnonymousState returns the signed-out snapshot.
func AnonymousState() AuthState {
	return AuthState{}
}

// AuthenticatedState returns a signed-in snapshot for u.
func AuthenticatedState(u User) AuthState {
	return AuthState{IsAuthenticated: true, User: &u}
}

// Status derives the state machine position from the snapshot flags.
func (s AuthState) Status() SessionStatus {
	switch {
	case s.Loading:
		return StatusAuthenticating
	case s.IsAuthenticated && s.User != nil:
		return StatusAuthenticated
	default:
		return StatusAnonymous
	}
}

// Clone returns a deep copy so holders cannot reach the owner's user.
func (s AuthState) Clone() AuthState {
	s.User = s.User.Clone()
	return s
}
