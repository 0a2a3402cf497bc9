package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike(t *testing.T) {
	t.Parallel()

	t.Run("adds missing user", func(t *testing.T) {
		t.Parallel()
		got := ToggleLike([]string{"a"}, "b")
		assert.Equal(t, []string{"a", "b"}, got)
	})

	t.Run("removes present user", func(t *testing.T) {
		t.Parallel()
		got := ToggleLike([]string{"a", "b", "c"}, "b")
		assert.Equal(t, []string{"a", "c"}, got)
	})

	t.Run("twice restores original set", func(t *testing.T) {
		t.Parallel()
		orig := []string{"u1", "u2"}
		got := ToggleLike(ToggleLike(orig, "u3"), "u3")
		assert.Equal(t, orig, got)
		assert.Len(t, got, 2)

		got = ToggleLike(ToggleLike(orig, "u1"), "u1")
		assert.ElementsMatch(t, orig, got)
		assert.Len(t, got, 2)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		t.Parallel()
		orig := make([]string, 2, 8)
		orig[0], orig[1] = "a", "b"
		_ = ToggleLike(orig, "c")
		_ = ToggleLike(orig, "a")
		assert.Equal(t, []string{"a", "b"}, orig)
		assert.Equal(t, "", orig[:3][2])
	})

	t.Run("nil set", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"x"}, ToggleLike(nil, "x"))
		assert.False(t, HasLike(nil, "x"))
	})
}

func TestUserPatchApply(t *testing.T) {
	t.Parallel()
	bio := "loves soup"
	u := User{ID: "1", Name: "Ann", Bio: "old", Location: "Oak Ridge"}

	got := UserPatch{Bio: &bio}.Apply(u)

	assert.Equal(t, "loves soup", got.Bio)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "Oak Ridge", got.Location)
	assert.Equal(t, "old", u.Bio, "receiver must be copied")
	assert.False(t, UserPatch{Bio: &bio}.IsEmpty())
	assert.True(t, UserPatch{}.IsEmpty())
}

func TestPostPatchApply(t *testing.T) {
	t.Parallel()
	likes := []string{"u1"}
	p := Post{ID: "p", Title: "Soup", Likes: nil}

	got := PostPatch{Likes: &likes}.Apply(p)

	assert.Equal(t, []string{"u1"}, got.Likes)
	assert.Equal(t, "Soup", got.Title)
	assert.Nil(t, p.Likes)
}

func TestCategoriesByIDs(t *testing.T) {
	t.Parallel()
	got := CategoriesByIDs([]string{"8", "1", "nope"})
	require.Len(t, got, 2)
	assert.Equal(t, "Breakfast", got[0].Name)
	assert.Equal(t, "Kids Favorite", got[1].Name)
	assert.Len(t, Categories(), 8)

	c, ok := CategoryByID("5")
	assert.True(t, ok)
	assert.Equal(t, "Desserts", c.Name)
}

func TestAuthStateStatus(t *testing.T) {
	t.Parallel()
	assert.Equal(t, StatusAnonymous, AnonymousState().Status())
	assert.Equal(t, StatusAuthenticated, AuthenticatedState(User{ID: "1"}).Status())

	s := AuthenticatedState(User{ID: "1"})
	s.Loading = true
	assert.Equal(t, StatusAuthenticating, s.Status())

	// A flag without a user is not a session.
	assert.Equal(t, StatusAnonymous, AuthState{IsAuthenticated: true}.Status())
}

func TestAuthStateJSONLayout(t *testing.T) {
	t.Parallel()
	raw, err := json.Marshal(AnonymousState())
	require.NoError(t, err)
	assert.JSONEq(t, `{"isAuthenticated":false,"user":null,"loading":false}`, string(raw))
}

func TestAuthStateCloneIsDeep(t *testing.T) {
	t.Parallel()
	s := AuthenticatedState(User{ID: "1", Name: "Ann"})
	c := s.Clone()
	c.User.Name = "Bob"
	assert.Equal(t, "Ann", s.User.Name)
}

func TestErrorCode(t *testing.T) {
	t.Parallel()
	wrapped := fmt.Errorf("register: %w", NewDuplicateAccountError())
	assert.Equal(t, CodeDuplicateAccount, ErrorCode(wrapped))
	assert.True(t, IsCode(wrapped, CodeDuplicateAccount))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))

	cause := errors.New("disk gone")
	opErr := NewOperationFailedError("Login failed. Please try again.", cause)
	assert.ErrorIs(t, opErr, cause)
	assert.Contains(t, opErr.Error(), "disk gone")
}

func TestDifficultyValid(t *testing.T) {
	t.Parallel()
	assert.True(t, DifficultyHard.Valid())
	assert.True(t, Difficulty("").Valid())
	assert.False(t, Difficulty("Extreme").Valid())
}
