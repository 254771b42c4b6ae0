package kvstore

import (
	"context"
	"time"
)

// DefaultTTL delegates entry expiration to Config.TimeToLive.
const DefaultTTL = time.Duration(0)

// NeverExpire makes an entry immune to expiration regardless of Config.TimeToLive.
const NeverExpire = time.Duration(-1)

// Metric names reported to stats.Tracker.
const (
	MetricHit         = "store_hit"
	MetricMiss        = "store_miss"
	MetricExpired     = "store_expired"
	MetricWrite       = "store_write"
	MetricDelete      = "store_delete"
	MetricItems       = "store_items"
	MetricBuild       = "store_build"
	MetricFailedBuild = "store_failed_build"
)

// Getter reads a value by key.
type Getter[K comparable, V any] interface {
	// Get returns a copy of the stored value, or ErrNotFound for a key that
	// is vacant or expired.
	Get(ctx context.Context, key K) (V, error)
}

// Inserter stores a value by key.
type Inserter[K comparable, V any] interface {
	// Insert stores value under key, overwriting any previous entry.
	Insert(ctx context.Context, key K, value V, ttl time.Duration)
}

// Remover deletes a value by key.
type Remover[K comparable, V any] interface {
	// Remove deletes the entry under key and returns its value, or ErrNotFound.
	Remove(ctx context.Context, key K) (V, error)
}

// Map is the complete store contract.
type Map[K comparable, V any] interface {
	Getter[K, V]
	Inserter[K, V]
	Remover[K, V]
}

// Entry is a stored value with its expiration.
type Entry[V any] interface {
	Value() V

	// ExpireAt returns the absolute expiration instant, zero time for
	// entries that never expire.
	ExpireAt() time.Time
}
