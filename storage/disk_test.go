package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	base := filepath.Join(t.TempDir(), "uploads")
	store, err := NewDiskStore(base)
	require.NoError(t, err)

	ref, err := store.Store(context.Background(), Upload{
		Name:   "cat.png",
		Reader: strings.NewReader("not really a png"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "uploads/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	data, err := os.ReadFile(filepath.Join(base, filepath.Base(ref)))
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(data))

	require.NoError(t, store.Remove(ref))
	_, err = os.Stat(filepath.Join(base, filepath.Base(ref)))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStoreStripsUnknownExtension(t *testing.T) {
	store, err := NewDiskStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	ref, err := store.Store(context.Background(), Upload{
		Name:   "script.sh",
		Reader: strings.NewReader("echo"),
	})
	require.NoError(t, err)
	assert.NotContains(t, ref, ".sh")
}

func TestDiskStoreRemoveCannotEscapeBase(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o644))

	store, err := NewDiskStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	// Path traversal collapses to the base name, which does not exist
	// inside the upload dir.
	err = store.Remove("../secret.txt")
	assert.Error(t, err)

	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr)
}

func TestDiskStoreRemoveEmptyRefIsNoop(t *testing.T) {
	store, err := NewDiskStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	assert.NoError(t, store.Remove(""))
}
