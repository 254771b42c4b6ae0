package kvstore_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vearutop/kvstore"
)

func TestStore_dumpRestore(t *testing.T) {
	ctx := context.Background()
	s := kvstore.New[string, int]()

	s.Insert(ctx, "forever", 1, kvstore.DefaultTTL)
	s.Insert(ctx, "short", 2, 10*time.Millisecond)

	buf := bytes.Buffer{}

	n, err := s.Dump(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	restored := kvstore.New[string, int]()

	n, err = restored.Restore(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, err := restored.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Expirations survive the round trip: the short entry expires in the
	// restored store as well.
	time.Sleep(30 * time.Millisecond)

	_, err = restored.Get(ctx, "short")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	v, err = restored.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestStore_restoreGarbage(t *testing.T) {
	restored := kvstore.New[string, int]()

	n, err := restored.Restore(bytes.NewReader([]byte("not a gob stream")))
	assert.Error(t, err)
	assert.Equal(t, 0, n)
}
