package kvstore

import (
	"context"

	"momskitchen/internal/observability"
)

// instrumented records metrics and a trace span around every call.
type instrumented struct {
	next    Store
	backend string
}

// Instrument decorates s with prometheus metrics and tracing under the given
// backend label.
func Instrument(s Store, backend string) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{next: s, backend: backend}
}

func (i *instrumented) Get(ctx context.Context, key string) (v string, ok bool, err error) {
	ctx, span := observability.StartStorageSpan(ctx, i.backend, "get", key)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackStorageOp(i.backend, "get", &err)()
	return i.next.Get(ctx, key)
}

func (i *instrumented) Set(ctx context.Context, key, value string) (err error) {
	ctx, span := observability.StartStorageSpan(ctx, i.backend, "set", key)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackStorageOp(i.backend, "set", &err)()
	return i.next.Set(ctx, key, value)
}

func (i *instrumented) Remove(ctx context.Context, key string) (err error) {
	ctx, span := observability.StartStorageSpan(ctx, i.backend, "remove", key)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackStorageOp(i.backend, "remove", &err)()
	return i.next.Remove(ctx, key)
}

// Close forwards to the wrapped backend.
func (i *instrumented) Close() error {
	return Close(i.next)
}
