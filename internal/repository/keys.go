// Package repository implements the Persistent Store: whole-collection JSON
// documents kept under fixed keys of a kvstore.Store.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"momskitchen/internal/kvstore"
)

// Storage keys. Each holds one complete JSON document.
const (
	KeyAuth        = "moms_kitchen_auth"
	KeyPosts       = "moms_kitchen_posts"
	KeyUsers       = "moms_kitchen_users"
	KeyCurrentUser = "moms_kitchen_current_user"
)

// document reads and writes one JSON array under a single key. mu is held by
// callers across a read-modify-write.
type document[T any] struct {
	mu    sync.Mutex
	store kvstore.Store
	key   string
}

func (d *document[T]) load(ctx context.Context) ([]T, error) {
	raw, ok, err := d.store.Get(ctx, d.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.key, err)
	}
	if !ok || raw == "" {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (d *document[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	if err := d.store.Set(ctx, d.key, string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", d.key, err)
	}
	return nil
}
