package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "theme")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "theme", "dark"))
	val, err := m.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", val)

	require.NoError(t, m.Set(ctx, "theme", "light"))
	val, err = m.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", val)

	require.NoError(t, m.Delete(ctx, "theme"))
	require.ErrorIs(t, m.Delete(ctx, "theme"), ErrNotFound)
	assert.NoError(t, m.Close())
}

func TestMemory_List(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "first", "1"))
	time.Sleep(time.Millisecond)
	require.NoError(t, m.Set(ctx, "second", "22"))

	keys, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "second", keys[0].Key)
	assert.Equal(t, 2, keys[0].Size)
	assert.Equal(t, "first", keys[1].Key)
	assert.Equal(t, keys[1].CreatedAt, keys[1].UpdatedAt)
}
