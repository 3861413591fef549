package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProviderRoundtrip(t *testing.T) {
	provider, err := NewLocalProvider(t.TempDir())
	require.NoError(t, err)
	defer provider.Close()

	ctx := context.Background()
	content := []byte("hello, cloud")
	key := uuid.New().String() + "/abc123-greeting.txt"

	written, err := provider.Save(ctx, key, bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), written)

	exists, err := provider.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	r, err := provider.Open(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, content, got)

	require.NoError(t, provider.Remove(ctx, key))

	exists, err = provider.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalProviderCreatesOwnerRootLazily(t *testing.T) {
	base := t.TempDir()
	provider, err := NewLocalProvider(base)
	require.NoError(t, err)
	defer provider.Close()

	ctx := context.Background()
	owner := uuid.New()

	ownerDir := filepath.Join(base, owner.String())
	_, err = os.Stat(ownerDir)
	require.True(t, os.IsNotExist(err), "owner root must not exist before first upload")

	// First and second saves both succeed, root creation is idempotent.
	_, err = provider.Save(ctx, owner.String()+"/one-a.txt", bytes.NewReader([]byte("a")))
	require.NoError(t, err)
	_, err = provider.Save(ctx, owner.String()+"/two-b.txt", bytes.NewReader([]byte("b")))
	require.NoError(t, err)

	info, err := os.Stat(ownerDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalProviderRemoveMissing(t *testing.T) {
	provider, err := NewLocalProvider(t.TempDir())
	require.NoError(t, err)
	defer provider.Close()

	err = provider.Remove(context.Background(), "nobody/nothing.bin")
	assert.Error(t, err)
}
