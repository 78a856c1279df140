package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", "v1"))
	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", value)

	require.NoError(t, store.Set(ctx, "k", "v2"))
	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error.
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestMemoryStore_SetNX(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	set, err := store.SetNX(ctx, "guard", "1", time.Hour)
	require.NoError(t, err)
	assert.True(t, set)

	set, err = store.SetNX(ctx, "guard", "2", time.Hour)
	require.NoError(t, err)
	assert.False(t, set)

	value, err := store.Get(ctx, "guard")
	require.NoError(t, err)
	assert.Equal(t, "1", value)

	require.NoError(t, store.Delete(ctx, "guard"))
	set, err = store.SetNX(ctx, "guard", "3", time.Hour)
	require.NoError(t, err)
	assert.True(t, set)
}
