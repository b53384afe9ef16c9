package client

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore("")

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Set(ctx, "abc"))
	token, _ = store.Get(ctx)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear(ctx))
	token, _ = store.Get(ctx)
	assert.Empty(t, token)
}

func TestFileTokenStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "farmctl", "token")
	store := NewFileTokenStore(path)

	t.Run("missing file is empty", func(t *testing.T) {
		token, err := store.Get(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("set writes an owner-only file", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "abc"))

		token, err := store.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("clear removes the file and is idempotent", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, store.Clear(ctx))
	})
}
