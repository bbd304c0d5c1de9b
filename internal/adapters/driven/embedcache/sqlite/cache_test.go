package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetMissingFingerprint(t *testing.T) {
	c := newTestCache(t)

	vectors, ok, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, vectors)
}

func TestPutThenGetRoundTrips(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	want := [][]float32{{0.1, -0.2, 0.3}, {1, 0, -1}}
	require.NoError(t, c.Put(ctx, "fp1", []string{"a", "b"}, want))

	got, ok, err := c.Get(ctx, "fp1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestPutPrunesStaleGeneration(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "old", []string{"a"}, [][]float32{{1, 2}}))
	require.NoError(t, c.Put(ctx, "new", []string{"a", "b"}, [][]float32{{1, 2}, {3, 4}}))

	_, ok, err := c.Get(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := c.Get(ctx, "new")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestPutRejectsMismatchedInput(t *testing.T) {
	c := newTestCache(t)

	err := c.Put(context.Background(), "fp", []string{"a", "b"}, [][]float32{{1}})
	assert.Error(t, err)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := NewCache(dir)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "fp", []string{"a"}, [][]float32{{0.5, 0.25}}))
	require.NoError(t, c.Close())

	c2, err := NewCache(dir)
	require.NoError(t, err)
	defer c2.Close()

	got, ok, err := c2.Get(ctx, "fp")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, [][]float32{{0.5, 0.25}}, got)
}
