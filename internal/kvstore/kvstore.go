// Package kvstore provides the string-keyed storage the persistence layer
// writes whole collection documents into.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"momskitchen/internal/config"
)

// Store is a synchronous string-keyed get/set/remove API.
type Store interface {
	// Get returns the value at key. ok is false when nothing is stored there.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Closer is implemented by backends holding connections.
type Closer interface {
	Close() error
}

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("kvstore: closed")

// Open builds the backend selected by cfg and wraps it with instrumentation.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.StorageBackend {
	case config.BackendMemory:
		s = NewMemory()
	case config.BackendNone:
		s = Unavailable{}
	case config.BackendRedis:
		s, err = NewRedisFromURL(ctx, cfg.RedisURL, cfg.RedisNamespace)
	case config.BackendSQLite:
		s, err = OpenSQLite(cfg.SQLitePath)
	case config.BackendPostgres:
		s, err = OpenPostgres(cfg.PostgresDSN())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	return Instrument(s, cfg.StorageBackend), nil
}

// Close closes s when its backend holds resources.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
