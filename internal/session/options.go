package session

import (
	"time"

	"momskitchen/internal/observability"

	"github.com/google/uuid"
)

// Option configures a Manager.
type Option func(*Manager)

// WithIDGenerator overrides how new user ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithClock overrides the source of join timestamps.
func WithClock(fn func() time.Time) Option {
	return func(m *Manager) {
		if fn != nil {
			m.now = fn
		}
	}
}

// WithDefaultAvatar sets the avatar given to newly registered users.
func WithDefaultAvatar(url string) Option {
	return func(m *Manager) {
		m.defaultAvatar = url
	}
}

// WithLogger routes transition logs to l.
func WithLogger(l *observability.Logger) Option {
	return func(m *Manager) {
		m.log = observability.NewSessionLogger(l)
	}
}

// NewID returns a time-ordered UUID string.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Now returns the current UTC time at millisecond precision, the resolution
// persisted timestamps carry.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
