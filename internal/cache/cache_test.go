package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	in := map[string]string{"alpha": "one", "beta": "two"}
	require.NoError(t, store.Save(ctx, "test.json", in))

	var out map[string]string
	found, err := store.Load(ctx, "test.json", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestFileStoreLoadAbsent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var out map[string]string
	found, err := store.Load(context.Background(), "missing.json", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0600))

	var out map[string]string
	_, err = store.Load(context.Background(), "bad.json", &out)
	assert.Error(t, err)
}

func TestFileStoreDeleteIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "test.json", map[string]string{"k": "v"}))

	require.NoError(t, store.Delete(ctx, "test.json"))
	require.NoError(t, store.Delete(ctx, "test.json"))

	var out map[string]string
	found, err := store.Load(ctx, "test.json", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "test.json", map[string]string{"k": "old"}))
	require.NoError(t, store.Save(ctx, "test.json", map[string]string{"k": "new"}))

	var out map[string]string
	found, err := store.Load(ctx, "test.json", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "new", out["k"])
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
