package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"momskitchen/internal/kvstore"
	"momskitchen/internal/models"
	"momskitchen/internal/observability"
)

// AuthRepository persists the singleton authentication snapshot.
type AuthRepository interface {
	// Get returns the stored snapshot, or the anonymous one when nothing is stored.
	Get(ctx context.Context) (models.AuthState, error)
	Set(ctx context.Context, state models.AuthState) error
	// Clear removes the snapshot and the legacy current-user marker.
	Clear(ctx context.Context) error
}

type authRepository struct {
	store  kvstore.Store
	logger *observability.RepoLogger
}

// NewAuthRepository returns a new AuthRepository implementation.
func NewAuthRepository(store kvstore.Store) AuthRepository {
	return &authRepository{store: store, logger: observability.NewRepoLogger("auth")}
}

func (r *authRepository) Get(ctx context.Context) (models.AuthState, error) {
	raw, ok, err := r.store.Get(ctx, KeyAuth)
	if err != nil {
		return models.AnonymousState(), fmt.Errorf("read %s: %w", KeyAuth, err)
	}
	if !ok || raw == "" {
		return models.AnonymousState(), nil
	}
	var state models.AuthState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return models.AnonymousState(), fmt.Errorf("decode %s: %w", KeyAuth, err)
	}
	return state, nil
}

func (r *authRepository) Set(ctx context.Context, state models.AuthState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyAuth, err)
	}
	if err := r.store.Set(ctx, KeyAuth, string(raw)); err != nil {
		r.logger.LogError(ctx, err, "set")
		return fmt.Errorf("write %s: %w", KeyAuth, err)
	}
	fields := map[string]interface{}{"authenticated": state.IsAuthenticated}
	if state.User != nil {
		fields["user_id"] = state.User.ID
	}
	r.logger.LogUpdate(ctx, fields)
	return nil
}

func (r *authRepository) Clear(ctx context.Context) error {
	for _, key := range []string{KeyAuth, KeyCurrentUser} {
		if err := r.store.Remove(ctx, key); err != nil {
			r.logger.LogError(ctx, err, "clear")
			return fmt.Errorf("remove %s: %w", key, err)
		}
	}
	r.logger.LogDelete(ctx, nil)
	return nil
}
