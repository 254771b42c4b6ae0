package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

var _ Map[string, any] = &Store[string, any]{}

// Store is a thread-safe mapping of keys to values with per-entry expiration.
//
// Store is a handle to shared state: copying a Store value (or sharing a
// *Store) produces another handle to the same underlying mapping, which is
// reclaimed by the garbage collector once the last handle is gone. There is
// no Close, a store owns no goroutines or timers.
//
// Values are returned by copy in the Go assignment sense. If V contains
// pointers, slices or maps, the pointed-to data is still shared with the
// store; keep such values effectively immutable after insertion.
//
// Please use New to create an instance.
type Store[K comparable, V any] struct {
	*store[K, V]
}

type store[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]entry[V]

	config Config
	log    ctxd.Logger
	stat   stats.Tracker
}

// New creates an empty store with optional configuration.
func New[K comparable, V any](cfg ...Config) *Store[K, V] {
	config := Config{}

	if len(cfg) >= 1 {
		config = cfg[0]
	}

	return &Store[K, V]{
		store: &store[K, V]{
			data:   make(map[K]entry[V]),
			config: config,
			log:    config.Logger,
			stat:   config.Stats,
		},
	}
}

// Insert stores value under key, overwriting any previous entry.
//
// The replaced entry is discarded without inspecting its expiration state.
// See DefaultTTL and NeverExpire for ttl resolution.
func (s *Store[K, V]) Insert(ctx context.Context, key K, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry[V]{Val: value, Exp: s.config.expireAt(ttl)}

	if s.log != nil {
		s.log.Debug(ctx, "wrote to store",
			"name", s.config.Name,
			"key", key,
			"value", value,
			"ttl", ttl)
	}

	if s.stat != nil {
		s.stat.Add(ctx, MetricWrite, 1, "name", s.config.Name)
		s.stat.Set(ctx, MetricItems, float64(len(s.data)), "name", s.config.Name)
	}
}

// Swap stores value under key and returns the value it replaced, or
// ErrNotFound if the key was vacant.
//
// The previous value is returned even if it had already logically expired,
// same as Remove.
func (s *Store[K, V]) Swap(ctx context.Context, key K, value V, ttl time.Duration) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, found := s.data[key]
	s.data[key] = entry[V]{Val: value, Exp: s.config.expireAt(ttl)}

	if s.log != nil {
		s.log.Debug(ctx, "wrote to store",
			"name", s.config.Name,
			"key", key,
			"value", value,
			"ttl", ttl)
	}

	if s.stat != nil {
		s.stat.Add(ctx, MetricWrite, 1, "name", s.config.Name)
		s.stat.Set(ctx, MetricItems, float64(len(s.data)), "name", s.config.Name)
	}

	if !found {
		var zero V

		return zero, ErrNotFound
	}

	return prev.Val, nil
}

// Get returns a copy of the value stored under key.
//
// Vacant and expired keys yield ErrNotFound. A live hit is served under the
// read lock. An expired entry cannot be deleted under the read lock, so Get
// releases it, takes the write lock, re-checks that the entry is still
// present and still expired, and only then removes it. A workload dominated
// by reads of expired keys therefore degrades to write-lock contention;
// that is the price of not running a background reaper.
func (s *Store[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V

	if SkipRead(ctx) {
		return zero, ErrNotFound
	}

	now := time.Now()

	s.mu.RLock()
	e, found := s.data[key]
	s.mu.RUnlock()

	if !found {
		if s.log != nil {
			s.log.Debug(ctx, "store miss",
				"name", s.config.Name,
				"key", key)
		}

		if s.stat != nil {
			s.stat.Add(ctx, MetricMiss, 1, "name", s.config.Name)
		}

		return zero, ErrNotFound
	}

	if e.expired(now) {
		s.reclaim(ctx, key)

		if s.log != nil {
			s.log.Debug(ctx, "store key expired",
				"name", s.config.Name,
				"key", key)
		}

		if s.stat != nil {
			s.stat.Add(ctx, MetricExpired, 1, "name", s.config.Name)
		}

		return zero, ErrNotFound
	}

	if s.stat != nil {
		s.stat.Add(ctx, MetricHit, 1, "name", s.config.Name)
	}

	if s.log != nil {
		s.log.Debug(ctx, "store hit",
			"name", s.config.Name,
			"key", key,
			"entry", e)
	}

	return e.Val, nil
}

// reclaim deletes an expired entry under the write lock.
//
// Presence and expiration are checked again: between the read lock release
// and the write lock acquisition a concurrent writer may have removed,
// replaced or refreshed the entry, and such an entry must survive.
func (s *store[K, V]) reclaim(ctx context.Context, key K) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.data[key]
	if !found || !e.expired(time.Now()) {
		return
	}

	delete(s.data, key)

	if s.stat != nil {
		s.stat.Set(ctx, MetricItems, float64(len(s.data)), "name", s.config.Name)
	}
}

// Remove deletes the entry stored under key and returns its value, or
// ErrNotFound if the key was vacant.
//
// The entry is removed regardless of expiration state and the return value
// does not tell whether it had already logically expired: do not use Remove
// to decide whether a key was still live.
func (s *Store[K, V]) Remove(ctx context.Context, key K) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.data[key]
	if !found {
		var zero V

		return zero, ErrNotFound
	}

	delete(s.data, key)

	if s.log != nil {
		s.log.Debug(ctx, "deleted store entry",
			"name", s.config.Name,
			"key", key)
	}

	if s.stat != nil {
		s.stat.Add(ctx, MetricDelete, 1, "name", s.config.Name)
		s.stat.Set(ctx, MetricItems, float64(len(s.data)), "name", s.config.Name)
	}

	return e.Val, nil
}

// ExpireAll marks all entries as expired, they are reclaimed lazily on access.
func (s *Store[K, V]) ExpireAll(ctx context.Context) {
	now := time.Now()
	cnt := 0

	s.mu.Lock()
	for k, v := range s.data {
		v.Exp = now
		s.data[k] = v
		cnt++
	}
	s.mu.Unlock()

	if s.log != nil {
		s.log.Important(ctx, "expired all entries in store",
			"name", s.config.Name,
			"count", cnt)
	}
}

// RemoveAll deletes all entries.
func (s *Store[K, V]) RemoveAll(ctx context.Context) {
	s.mu.Lock()
	cnt := len(s.data)
	s.data = make(map[K]entry[V])

	if s.stat != nil {
		s.stat.Set(ctx, MetricItems, 0, "name", s.config.Name)
	}
	s.mu.Unlock()

	if s.log != nil {
		s.log.Important(ctx, "deleted all entries in store",
			"name", s.config.Name,
			"count", cnt)
	}
}

// Len returns number of physically present entries, including expired
// entries that are not reclaimed yet.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	cnt := len(s.data)
	s.mu.RUnlock()

	return cnt
}

// Walk calls walkFn for every entry under the read lock and fails on first
// error returned by walkFn. Count of processed entries is returned.
//
// The walkFn must not call mutating methods of the same store, that would
// deadlock on the lock already held by Walk.
func (s *Store[K, V]) Walk(walkFn func(key K, e Entry[V]) error) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0

	for k, v := range s.data {
		if err := walkFn(k, v); err != nil {
			return n, err
		}

		n++
	}

	return n, nil
}
