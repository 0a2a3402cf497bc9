// Package session owns the authentication snapshot and mediates every
// identity transition.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"momskitchen/internal/models"
	"momskitchen/internal/observability"
	"momskitchen/internal/repository"
)

// User-facing messages for storage faults.
const (
	msgRegisterFailed = "Registration failed. Please try again."
	msgLoginFailed    = "Login failed. Please try again."
	msgUpdateFailed   = "Failed to update profile"
	msgLogoutFailed   = "Logout failed"
)

// Listener receives a copy of every new snapshot.
type Listener func(models.AuthState)

type subscription struct {
	id uint64
	fn Listener
}

// Manager is the single owner of the authentication snapshot. Construct one
// per process and pass it to whatever needs it.
//
// Transitions are serialized. Listeners run synchronously on the caller's
// goroutine, in registration order, after the state lock is released. A
// listener must not start another transition from inside the callback.
type Manager struct {
	auth  repository.AuthRepository
	users repository.UserRepository

	newID         func() string
	now           func() time.Time
	defaultAvatar string
	log           *observability.SessionLogger

	opMu sync.Mutex

	mu        sync.RWMutex
	state     models.AuthState
	listeners []subscription
	nextSubID uint64
}

// NewManager builds a Manager and rehydrates it from the stored snapshot.
// A stored snapshot that cannot be decoded is returned as an error.
func NewManager(ctx context.Context, auth repository.AuthRepository, users repository.UserRepository, opts ...Option) (*Manager, error) {
	m := &Manager{
		auth:  auth,
		users: users,
		newID: NewID,
		now:   Now,
		log:   observability.NewSessionLogger(nil),
	}
	for _, opt := range opts {
		opt(m)
	}

	state, err := auth.Get(ctx)
	if err != nil {
		return nil, err
	}
	state.Loading = false
	if !state.IsAuthenticated || state.User == nil {
		state = models.AnonymousState()
	}
	m.state = state
	return m, nil
}

// AuthState returns a copy of the current snapshot.
func (m *Manager) AuthState() models.AuthState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (m *Manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.User.Clone()
}

// IsAuthenticated reports whether a user is signed in.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.IsAuthenticated && m.state.User != nil
}

// Subscribe registers fn for every snapshot change. The returned function
// removes it and is safe to call more than once. Listeners run on the
// goroutine of the transition that fired them and must not start another
// transition themselves.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	m.nextSubID++
	id := m.nextSubID
	m.listeners = append(m.listeners, subscription{id: id, fn: fn})
	m.mu.Unlock()
	observability.SessionSubscribers.Inc()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			for i, s := range m.listeners {
				if s.id == id {
					m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
					break
				}
			}
			m.mu.Unlock()
			observability.SessionSubscribers.Dec()
		})
	}
}

// Register creates an account for email and signs it in. An email already on
// file fails with DUPLICATE_ACCOUNT and leaves the previous session in place.
func (m *Manager) Register(ctx context.Context, email, password, name string) (user *models.User, err error) {
	const op = "register"
	ctx, span := observability.StartSessionSpan(ctx, op)
	defer func() { observability.EndSpan(span, err) }()

	m.opMu.Lock()
	defer m.opMu.Unlock()

	from := m.beginLoading()

	_, err = m.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, m.reject(ctx, op, models.NewDuplicateAccountError(), true)
	case !models.IsCode(err, models.CodeNotFound):
		return nil, m.reject(ctx, op, models.NewOperationFailedError(msgRegisterFailed, err), true)
	}

	newUser := models.User{
		ID:         m.newID(),
		Email:      email,
		Name:       name,
		Avatar:     m.defaultAvatar,
		JoinedDate: m.now(),
	}
	if err := m.users.Add(ctx, newUser); err != nil {
		return nil, m.reject(ctx, op, models.NewOperationFailedError(msgRegisterFailed, err), true)
	}
	if err := m.commit(ctx, op, from, models.AuthenticatedState(newUser)); err != nil {
		return nil, m.reject(ctx, op, models.NewOperationFailedError(msgRegisterFailed, err), true)
	}
	return newUser.Clone(), nil
}

// Login signs in the account registered under email. The password is not
// checked; any value is accepted.
func (m *Manager) Login(ctx context.Context, email, password string) (user *models.User, err error) {
	const op = "login"
	ctx, span := observability.StartSessionSpan(ctx, op)
	defer func() { observability.EndSpan(span, err) }()

	m.opMu.Lock()
	defer m.opMu.Unlock()

	from := m.beginLoading()

	found, err := m.users.GetByEmail(ctx, email)
	switch {
	case models.IsCode(err, models.CodeNotFound):
		return nil, m.reject(ctx, op, models.NewAccountNotFoundError(), true)
	case err != nil:
		return nil, m.reject(ctx, op, models.NewOperationFailedError(msgLoginFailed, err), true)
	}

	if err := m.commit(ctx, op, from, models.AuthenticatedState(*found)); err != nil {
		return nil, m.reject(ctx, op, models.NewOperationFailedError(msgLoginFailed, err), true)
	}
	return found.Clone(), nil
}

// Logout always ends the session in memory. An error is returned only when
// the stored snapshot could not be removed.
func (m *Manager) Logout(ctx context.Context) (err error) {
	const op = "logout"
	ctx, span := observability.StartSessionSpan(ctx, op)
	defer func() { observability.EndSpan(span, err) }()

	m.opMu.Lock()
	defer m.opMu.Unlock()

	from := m.replace(models.AnonymousState())
	clearErr := m.auth.Clear(ctx)
	m.notify()

	if clearErr != nil {
		return m.reject(ctx, op, models.NewOperationFailedError(msgLogoutFailed, clearErr), false)
	}
	m.log.LogTransition(ctx, op, string(from.Status()), string(models.StatusAnonymous), userID(from.User))
	observability.SessionTransitions.WithLabelValues(op, "success").Inc()
	return nil
}

// UpdateProfile merges patch into the signed-in user, both in memory and in
// the users collection. An email already registered to another account fails
// with DUPLICATE_ACCOUNT. Posts and comments keep the author snapshot they
// were created with.
func (m *Manager) UpdateProfile(ctx context.Context, patch models.UserPatch) (user *models.User, err error) {
	const op = "update_profile"
	ctx, span := observability.StartSessionSpan(ctx, op)
	defer func() { observability.EndSpan(span, err) }()

	m.opMu.Lock()
	defer m.opMu.Unlock()

	current := m.AuthState()
	if current.User == nil {
		return nil, m.reject(ctx, op, models.NewNotLoggedInError(), false)
	}

	if patch.Email != nil && *patch.Email != current.User.Email {
		owner, err := m.users.GetByEmail(ctx, *patch.Email)
		switch {
		case err == nil && owner.ID != current.User.ID:
			return nil, m.reject(ctx, op, models.NewDuplicateAccountError(), false)
		case err != nil && !models.IsCode(err, models.CodeNotFound):
			return nil, m.reject(ctx, op, models.NewOperationFailedError(msgUpdateFailed, err), false)
		}
	}

	updated := patch.Apply(*current.User)
	if err := m.users.Update(ctx, current.User.ID, patch); err != nil {
		return nil, m.reject(ctx, op, models.NewOperationFailedError(msgUpdateFailed, err), false)
	}
	next := current
	next.User = &updated
	if err := m.commit(ctx, op, current, next); err != nil {
		return nil, m.reject(ctx, op, models.NewOperationFailedError(msgUpdateFailed, err), false)
	}
	return updated.Clone(), nil
}

// beginLoading marks the snapshot as mid-flight, notifies, and returns the
// snapshot as it was before.
func (m *Manager) beginLoading() models.AuthState {
	m.mu.Lock()
	prev := m.state.Clone()
	m.state.Loading = true
	m.mu.Unlock()
	m.notify()
	return prev
}

// commit persists next, installs it and notifies.
func (m *Manager) commit(ctx context.Context, op string, from, next models.AuthState) error {
	if err := m.auth.Set(ctx, next); err != nil {
		return err
	}
	m.replace(next)
	m.notify()
	m.log.LogTransition(ctx, op, string(from.Status()), string(next.Status()), userID(next.User))
	observability.SessionTransitions.WithLabelValues(op, "success").Inc()
	return nil
}

// reject clears the loading flag when it was raised, leaving the rest of the
// snapshot alone, and records the failure.
func (m *Manager) reject(ctx context.Context, op string, appErr *models.AppError, wasLoading bool) error {
	if wasLoading {
		m.mu.Lock()
		m.state.Loading = false
		m.mu.Unlock()
		m.notify()
	}
	m.log.LogRejected(ctx, op, appErr)
	observability.SessionTransitions.WithLabelValues(op, strings.ToLower(appErr.Code)).Inc()
	return appErr
}

func (m *Manager) replace(next models.AuthState) (prev models.AuthState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev = m.state
	m.state = next.Clone()
	return prev
}

func (m *Manager) notify() {
	m.mu.RLock()
	snapshot := m.state
	listeners := make([]subscription, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, s := range listeners {
		s.fn(snapshot.Clone())
	}
}

func userID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
