package kvstore

import (
	"context"
	"time"
)

// NoOp is a Map stub.
type NoOp[K comparable, V any] struct{}

var _ Map[string, any] = NoOp[string, any]{}

// Get does not find anything.
func (NoOp[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V

	return zero, ErrNotFound
}

// Insert discards value.
func (NoOp[K, V]) Insert(ctx context.Context, key K, value V, ttl time.Duration) {}

// Remove does not find anything.
func (NoOp[K, V]) Remove(ctx context.Context, key K) (V, error) {
	var zero V

	return zero, ErrNotFound
}
