package kvstore

import "context"

// Unavailable stands in when the execution context has no storage at all.
// Reads find nothing and writes are dropped.
type Unavailable struct{}

func (Unavailable) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (Unavailable) Set(context.Context, string, string) error { return nil }

func (Unavailable) Remove(context.Context, string) error { return nil }
