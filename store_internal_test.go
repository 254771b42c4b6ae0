package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_lazyReclamation(t *testing.T) {
	ctx := context.Background()
	s := New[string, int]()

	s.Insert(ctx, "key", 1, time.Millisecond)

	time.Sleep(10 * time.Millisecond)

	// Logically absent, physically present until touched.
	s.mu.RLock()
	_, found := s.data["key"]
	s.mu.RUnlock()
	assert.True(t, found)

	_, err := s.Get(ctx, "key")
	require.ErrorIs(t, err, ErrNotFound)

	s.mu.RLock()
	_, found = s.data["key"]
	s.mu.RUnlock()
	assert.False(t, found)
}

func TestStore_reclaimRecheck(t *testing.T) {
	ctx := context.Background()
	s := New[string, int]()

	// A live entry survives reclaim, simulating a writer that refreshed the
	// key between the read lock release and the write lock acquisition.
	s.Insert(ctx, "key", 1, time.Hour)
	s.reclaim(ctx, "key")

	v, err := s.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// An entry that is still expired under the write lock is deleted.
	s.mu.Lock()
	s.data["key"] = entry[int]{Val: 2, Exp: time.Now().Add(-time.Second)}
	s.mu.Unlock()

	s.reclaim(ctx, "key")

	s.mu.RLock()
	_, found := s.data["key"]
	s.mu.RUnlock()
	assert.False(t, found)

	// Reclaim of a vacant key is a no-op.
	s.reclaim(ctx, "key")
}

func TestEntry_expired(t *testing.T) {
	now := time.Now()

	assert.False(t, entry[int]{}.expired(now))
	assert.False(t, entry[int]{Exp: now.Add(time.Second)}.expired(now))
	assert.True(t, entry[int]{Exp: now}.expired(now))
	assert.True(t, entry[int]{Exp: now.Add(-time.Second)}.expired(now))
}

func TestConfig_expireAt(t *testing.T) {
	assert.True(t, Config{}.expireAt(DefaultTTL).IsZero())
	assert.True(t, Config{}.expireAt(NeverExpire).IsZero())
	assert.True(t, Config{TimeToLive: time.Minute}.expireAt(NeverExpire).IsZero())

	assert.False(t, Config{TimeToLive: time.Minute}.expireAt(DefaultTTL).IsZero())
	assert.False(t, Config{}.expireAt(time.Minute).IsZero())

	// Jitter keeps expiration within ±(ExpirationJitter * TTL / 2).
	cfg := Config{ExpirationJitter: 0.1}
	for i := 0; i < 100; i++ {
		exp := cfg.expireAt(time.Minute)
		d := time.Until(exp)

		assert.Greater(t, d, 54*time.Second)
		assert.Less(t, d, 66*time.Second)
	}
}
