package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"momskitchen/internal/kvstore"
	"momskitchen/internal/models"
	"momskitchen/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

type harness struct {
	store   kvstore.Store
	auth    repository.AuthRepository
	users   repository.UserRepository
	manager *Manager
	events  []models.AuthState
}

func newHarness(t *testing.T, store kvstore.Store) *harness {
	t.Helper()
	h := &harness{
		store: store,
		auth:  repository.NewAuthRepository(store),
		users: repository.NewUserRepository(store),
	}
	h.manager = h.open(t)
	h.manager.Subscribe(func(s models.AuthState) { h.events = append(h.events, s) })
	return h
}

func (h *harness) open(t *testing.T) *Manager {
	t.Helper()
	seq := 0
	m, err := NewManager(context.Background(), h.auth, h.users,
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("user-%d", seq)
		}),
		WithClock(func() time.Time { return fixedNow }),
		WithDefaultAvatar("https://img.example.com/default.png"),
	)
	require.NoError(t, err)
	return m
}

func TestManager_StartsAnonymous(t *testing.T) {
	h := newHarness(t, kvstore.NewMemory())

	state := h.manager.AuthState()
	assert.Equal(t, models.StatusAnonymous, state.Status())
	assert.Nil(t, h.manager.CurrentUser())
	assert.False(t, h.manager.IsAuthenticated())
}

func TestManager_Register(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, kvstore.NewMemory())

	user, err := h.manager.Register(ctx, "a@x.com", "pw", "Ann")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, "https://img.example.com/default.png", user.Avatar)
	assert.Empty(t, user.Bio)
	assert.Empty(t, user.Location)
	assert.True(t, user.JoinedDate.Equal(fixedNow))

	assert.True(t, h.manager.IsAuthenticated())
	assert.Equal(t, "user-1", h.manager.CurrentUser().ID)

	require.Len(t, h.events, 2)
	assert.Equal(t, models.StatusAuthenticating, h.events[0].Status())
	assert.Nil(t, h.events[0].User)
	assert.Equal(t, models.StatusAuthenticated, h.events[1].Status())

	stored, err := h.users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", stored.ID)

	persisted, err := h.auth.Get(ctx)
	require.NoError(t, err)
	assert.True(t, persisted.IsAuthenticated)
	assert.False(t, persisted.Loading)
}

func TestManager_RegisterDuplicateKeepsSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, kvstore.NewMemory())

	_, err := h.manager.Register(ctx, "a@x.com", "pw", "Ann")
	require.NoError(t, err)
	before := h.manager.AuthState()
	h.events = nil

	user, err := h.manager.Register(ctx, "a@x.com", "other", "Impostor")
	assert.Nil(t, user)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeDuplicateAccount))
	assert.Equal(t, "User already exists with this email", ToResult(user, err).Error)

	assert.Equal(t, before, h.manager.AuthState())

	require.Len(t, h.events, 2)
	assert.True(t, h.events[0].Loading)
	require.NotNil(t, h.events[0].User, "the previous user is retained while loading")
	assert.Equal(t, "user-1", h.events[0].User.ID)
	assert.False(t, h.events[1].Loading)

	users, err := h.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestManager_LoginUnknownEmail(t *testing.T) {
	h := newHarness(t, kvstore.NewMemory())

	user, err := h.manager.Login(context.Background(), "ghost@x.com", "pw")
	assert.Nil(t, user)
	assert.True(t, models.IsCode(err, models.CodeAccountNotFound))
	assert.Equal(t, models.StatusAnonymous, h.manager.AuthState().Status())

	require.Len(t, h.events, 2)
	assert.Equal(t, models.StatusAuthenticating, h.events[0].Status())
	assert.Equal(t, models.StatusAnonymous, h.events[1].Status())
}

func TestManager_LoginAcceptsAnyPassword(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, kvstore.NewMemory())

	registered, err := h.manager.Register(ctx, "a@x.com", "pw", "Ann")
	require.NoError(t, err)
	require.NoError(t, h.manager.Logout(ctx))

	user, err := h.manager.Login(ctx, "a@x.com", "anything")
	require.NoError(t, err)
	assert.Equal(t, registered, user)
	assert.True(t, h.manager.IsAuthenticated())
}

func TestManager_LogoutAndRehydrate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, kvstore.NewMemory())

	_, err := h.manager.Register(ctx, "a@x.com", "pw", "Ann")
	require.NoError(t, err)

	rehydrated := h.open(t)
	assert.True(t, rehydrated.IsAuthenticated(), "a fresh manager picks up the stored session")
	assert.Equal(t, "user-1", rehydrated.CurrentUser().ID)

	require.NoError(t, h.store.Set(ctx, repository.KeyCurrentUser, `"user-1"`))
	require.NoError(t, h.manager.Logout(ctx))
	assert.Equal(t, models.StatusAnonymous, h.manager.AuthState().Status())

	_, ok, err := h.store.Get(ctx, repository.KeyAuth)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = h.store.Get(ctx, repository.KeyCurrentUser)
	require.NoError(t, err)
	assert.False(t, ok)

	fresh := h.open(t)
	assert.Equal(t, models.StatusAnonymous, fresh.AuthState().Status())
	assert.Nil(t, fresh.CurrentUser())
}

func TestManager_UpdateProfileFreezesAuthorSnapshot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, kvstore.NewMemory())
	posts := repository.NewPostRepository(h.store)

	author, err := h.manager.Register(ctx, "a@x.com", "pw", "Ann")
	require.NoError(t, err)
	require.NoError(t, posts.Add(ctx, models.Post{ID: "p1", AuthorID: author.ID, Author: *author, Title: "Soup"}))

	bio := "x"
	updated, err := h.manager.UpdateProfile(ctx, models.UserPatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "x", updated.Bio)
	assert.Equal(t, "Ann", updated.Name)

	assert.Equal(t, "x", h.manager.CurrentUser().Bio)

	stored, err := h.users.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", stored.Bio)

	persisted, err := h.auth.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", persisted.User.Bio)

	post, err := posts.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, post.Author.Bio)
}

func TestManager_UpdateProfileRequiresLogin(t *testing.T) {
	h := newHarness(t, kvstore.NewMemory())

	name := "Nobody"
	user, err := h.manager.UpdateProfile(context.Background(), models.UserPatch{Name: &name})
	assert.Nil(t, user)
	assert.True(t, models.IsCode(err, models.CodeNotLoggedIn))
	assert.Equal(t, "No user logged in", ToResult(user, err).Error)
	assert.Empty(t, h.events, "a rejected profile update does not notify")
}

func TestManager_UpdateProfileRejectsTakenEmail(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, kvstore.NewMemory())

	ann, err := h.manager.Register(ctx, "a@x.com", "secret", "Ann")
	require.NoError(t, err)
	bob, err := h.manager.Register(ctx, "b@x.com", "secret", "Bob")
	require.NoError(t, err)
	before := len(h.events)

	taken := "a@x.com"
	user, err := h.manager.UpdateProfile(ctx, models.UserPatch{Email: &taken})
	assert.Nil(t, user)
	assert.True(t, models.IsCode(err, models.CodeDuplicateAccount))
	assert.Equal(t, "b@x.com", h.manager.CurrentUser().Email)
	assert.Len(t, h.events, before, "a rejected profile update does not notify")

	users, err := h.users.List(ctx)
	require.NoError(t, err)
	matches := 0
	for _, u := range users {
		if u.Email == taken {
			matches++
		}
	}
	assert.Equal(t, 1, matches)

	require.NoError(t, h.manager.Logout(ctx))
	found, err := h.manager.Login(ctx, "b@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, found.ID)
	found, err = h.manager.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, found.ID)

	same := "a@x.com"
	user, err = h.manager.UpdateProfile(ctx, models.UserPatch{Email: &same})
	require.NoError(t, err, "keeping your own email is not a conflict")
	assert.Equal(t, ann.ID, user.ID)

	fresh := "ann@x.com"
	user, err = h.manager.UpdateProfile(ctx, models.UserPatch{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", user.Email)
	_, err = h.users.GetByEmail(ctx, "a@x.com")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestManager_SubscribeOrderAndUnsubscribe(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, kvstore.NewMemory())

	var calls []string
	unsubA := h.manager.Subscribe(func(models.AuthState) { calls = append(calls, "a") })
	h.manager.Subscribe(func(models.AuthState) { calls = append(calls, "b") })

	require.NoError(t, h.manager.Logout(ctx))
	assert.Equal(t, []string{"a", "b"}, calls)

	unsubA()
	unsubA()
	calls = nil
	require.NoError(t, h.manager.Logout(ctx))
	assert.Equal(t, []string{"b"}, calls)
}

func TestManager_ListenersReceiveCopies(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, kvstore.NewMemory())
	h.manager.Subscribe(func(s models.AuthState) {
		if s.User != nil {
			s.User.Name = "Tampered"
		}
	})

	_, err := h.manager.Register(ctx, "a@x.com", "pw", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "Ann", h.manager.CurrentUser().Name)

	u := h.manager.CurrentUser()
	u.Name = "Also tampered"
	assert.Equal(t, "Ann", h.manager.CurrentUser().Name)
}

// brokenStore fails every write after it is armed.
type brokenStore struct {
	kvstore.Store
	armed bool
}

func (b *brokenStore) Set(ctx context.Context, key, value string) error {
	if b.armed {
		return errors.New("quota exceeded")
	}
	return b.Store.Set(ctx, key, value)
}

func TestManager_StorageFailures(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{Store: kvstore.NewMemory()}
	h := newHarness(t, store)

	_, err := h.manager.Register(ctx, "a@x.com", "pw", "Ann")
	require.NoError(t, err)
	require.NoError(t, h.manager.Logout(ctx))
	store.armed = true

	t.Run("register", func(t *testing.T) {
		user, err := h.manager.Register(ctx, "b@x.com", "pw", "Bea")
		assert.Nil(t, user)
		assert.True(t, models.IsCode(err, models.CodeOperationFailed))
		assert.Equal(t, "Registration failed. Please try again.", ToResult(user, err).Error)
		assert.False(t, h.manager.AuthState().Loading)
		assert.False(t, h.manager.IsAuthenticated())
	})

	t.Run("login", func(t *testing.T) {
		user, err := h.manager.Login(ctx, "a@x.com", "pw")
		assert.Nil(t, user)
		assert.Equal(t, "Login failed. Please try again.", ToResult(user, err).Error)
		assert.False(t, h.manager.AuthState().Loading)
	})

	t.Run("update profile", func(t *testing.T) {
		store.armed = false
		_, err := h.manager.Login(ctx, "a@x.com", "pw")
		require.NoError(t, err)
		store.armed = true

		bio := "new"
		user, err := h.manager.UpdateProfile(ctx, models.UserPatch{Bio: &bio})
		assert.Nil(t, user)
		assert.Equal(t, "Failed to update profile", ToResult(user, err).Error)
		assert.Empty(t, h.manager.CurrentUser().Bio)
	})
}

func TestNewManager_RejectsCorruptSnapshot(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), repository.KeyAuth, "{"))

	_, err := NewManager(context.Background(), repository.NewAuthRepository(store), repository.NewUserRepository(store))
	assert.Error(t, err)
}

func TestNewManager_ClearsStaleLoadingFlag(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	auth := repository.NewAuthRepository(store)
	user := models.User{ID: "u1", Email: "a@x.com", Name: "Ann"}
	require.NoError(t, auth.Set(ctx, models.AuthState{IsAuthenticated: true, User: &user, Loading: true}))

	m, err := NewManager(ctx, auth, repository.NewUserRepository(store))
	require.NoError(t, err)
	assert.Equal(t, models.StatusAuthenticated, m.AuthState().Status())
}

func TestToResult(t *testing.T) {
	u := &models.User{ID: "u1"}
	assert.Equal(t, Result{Success: true, User: u}, ToResult(u, nil))

	r := ToResult(nil, models.NewOperationFailedError("Login failed. Please try again.", errors.New("disk")))
	assert.False(t, r.Success)
	assert.Equal(t, "Login failed. Please try again.", r.Error)
	assert.Equal(t, models.CodeOperationFailed, r.Code)

	r = ToResult(nil, errors.New("raw"))
	assert.Equal(t, "raw", r.Error)
}

func TestDefaults(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
	n := Now()
	assert.Equal(t, n, n.Truncate(time.Millisecond))
	assert.Equal(t, time.UTC, n.Location())
}
