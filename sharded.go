package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
	"github.com/cespare/xxhash/v2"
)

const shards = 64

var _ Map[string, any] = &ShardedStore[any]{}

type bucket[V any] struct {
	mu   sync.RWMutex
	data map[string]entry[V]
}

// ShardedStore is a string-keyed store that partitions keys across
// independently locked buckets to reduce write-path contention.
//
// Per-key semantics match Store, including lazy expiration. Aggregate
// operations (Len, ExpireAll, RemoveAll, Walk) act bucket by bucket and do
// not observe an atomic snapshot of the whole store.
//
// ShardedStore is a shareable handle, same as Store. Please use NewSharded
// to create an instance.
type ShardedStore[V any] struct {
	*shardedStore[V]
}

type shardedStore[V any] struct {
	buckets [shards]bucket[V]

	config Config
	log    ctxd.Logger
	stat   stats.Tracker
}

// NewSharded creates an empty sharded store with optional configuration.
func NewSharded[V any](cfg ...Config) *ShardedStore[V] {
	config := Config{}

	if len(cfg) >= 1 {
		config = cfg[0]
	}

	s := &shardedStore[V]{
		config: config,
		log:    config.Logger,
		stat:   config.Stats,
	}

	for i := 0; i < shards; i++ {
		s.buckets[i].data = make(map[string]entry[V])
	}

	return &ShardedStore[V]{shardedStore: s}
}

func (s *shardedStore[V]) bucket(key string) *bucket[V] {
	return &s.buckets[xxhash.Sum64String(key)%shards]
}

// Insert stores value under key, overwriting any previous entry.
func (s *ShardedStore[V]) Insert(ctx context.Context, key string, value V, ttl time.Duration) {
	b := s.bucket(key)

	b.mu.Lock()
	b.data[key] = entry[V]{Val: value, Exp: s.config.expireAt(ttl)}
	b.mu.Unlock()

	if s.log != nil {
		s.log.Debug(ctx, "wrote to store",
			"name", s.config.Name,
			"key", key,
			"value", value,
			"ttl", ttl)
	}

	if s.stat != nil {
		s.stat.Add(ctx, MetricWrite, 1, "name", s.config.Name)
	}
}

// Swap stores value under key and returns the value it replaced, or
// ErrNotFound if the key was vacant. Same expiration ambiguity as
// Store.Swap.
func (s *ShardedStore[V]) Swap(ctx context.Context, key string, value V, ttl time.Duration) (V, error) {
	b := s.bucket(key)

	b.mu.Lock()
	prev, found := b.data[key]
	b.data[key] = entry[V]{Val: value, Exp: s.config.expireAt(ttl)}
	b.mu.Unlock()

	if s.stat != nil {
		s.stat.Add(ctx, MetricWrite, 1, "name", s.config.Name)
	}

	if !found {
		var zero V

		return zero, ErrNotFound
	}

	return prev.Val, nil
}

// Get returns a copy of the value stored under key, see Store.Get for the
// lazy expiration contract. Lock upgrade on the expired path is scoped to
// the key's bucket.
func (s *ShardedStore[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	if SkipRead(ctx) {
		return zero, ErrNotFound
	}

	now := time.Now()
	b := s.bucket(key)

	b.mu.RLock()
	e, found := b.data[key]
	b.mu.RUnlock()

	if !found {
		if s.stat != nil {
			s.stat.Add(ctx, MetricMiss, 1, "name", s.config.Name)
		}

		return zero, ErrNotFound
	}

	if e.expired(now) {
		b.reclaim(key)

		if s.stat != nil {
			s.stat.Add(ctx, MetricExpired, 1, "name", s.config.Name)
		}

		return zero, ErrNotFound
	}

	if s.stat != nil {
		s.stat.Add(ctx, MetricHit, 1, "name", s.config.Name)
	}

	return e.Val, nil
}

// reclaim deletes an expired entry under the bucket write lock, re-checking
// presence and expiration against concurrent writers.
func (b *bucket[V]) reclaim(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, found := b.data[key]
	if !found || !e.expired(time.Now()) {
		return
	}

	delete(b.data, key)
}

// Remove deletes the entry stored under key and returns its value, or
// ErrNotFound if the key was vacant. Same expiration ambiguity as
// Store.Remove.
func (s *ShardedStore[V]) Remove(ctx context.Context, key string) (V, error) {
	b := s.bucket(key)

	b.mu.Lock()
	e, found := b.data[key]
	if found {
		delete(b.data, key)
	}
	b.mu.Unlock()

	if !found {
		var zero V

		return zero, ErrNotFound
	}

	if s.stat != nil {
		s.stat.Add(ctx, MetricDelete, 1, "name", s.config.Name)
	}

	return e.Val, nil
}

// ExpireAll marks all entries as expired, they are reclaimed lazily on access.
func (s *ShardedStore[V]) ExpireAll(ctx context.Context) {
	now := time.Now()
	cnt := 0

	for i := range s.buckets {
		b := &s.buckets[i]

		b.mu.Lock()
		for k, v := range b.data {
			v.Exp = now
			b.data[k] = v
			cnt++
		}
		b.mu.Unlock()
	}

	if s.log != nil {
		s.log.Important(ctx, "expired all entries in store",
			"name", s.config.Name,
			"count", cnt)
	}
}

// RemoveAll deletes all entries.
func (s *ShardedStore[V]) RemoveAll(ctx context.Context) {
	cnt := 0

	for i := range s.buckets {
		b := &s.buckets[i]

		b.mu.Lock()
		cnt += len(b.data)
		b.data = make(map[string]entry[V])
		b.mu.Unlock()
	}

	if s.log != nil {
		s.log.Important(ctx, "deleted all entries in store",
			"name", s.config.Name,
			"count", cnt)
	}
}

// Len returns number of physically present entries, including expired
// entries that are not reclaimed yet.
func (s *ShardedStore[V]) Len() int {
	cnt := 0

	for i := range s.buckets {
		b := &s.buckets[i]

		b.mu.RLock()
		cnt += len(b.data)
		b.mu.RUnlock()
	}

	return cnt
}

// Walk calls walkFn for every entry and fails on first error returned by
// walkFn. Count of processed entries is returned. Locks are taken bucket by
// bucket; walkFn must not call mutating methods of the same store.
func (s *ShardedStore[V]) Walk(walkFn func(key string, e Entry[V]) error) (int, error) {
	n := 0

	for i := range s.buckets {
		b := &s.buckets[i]

		b.mu.RLock()
		for k, v := range b.data {
			if err := walkFn(k, v); err != nil {
				b.mu.RUnlock()

				return n, err
			}

			n++
		}
		b.mu.RUnlock()
	}

	return n, nil
}
