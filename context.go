package kvstore

import "context"

type skipReadCtxKey struct{}

// WithSkipRead returns context with store reads ignored.
//
// With such context Get always returns ErrNotFound without touching the map.
func WithSkipRead(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipReadCtxKey{}, true)
}

// SkipRead returns true if store read is ignored in context.
func SkipRead(ctx context.Context) bool {
	_, ok := ctx.Value(skipReadCtxKey{}).(bool)

	return ok
}
