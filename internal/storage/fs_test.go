package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir(), "")
	require.NoError(t, err)
	ctx := context.Background()

	key, err := store.Put(ctx, "snapshots/attempt1_x.jpg", strings.NewReader("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "snapshots/attempt1_x.jpg", key)

	rc, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestFSStorePutRejectsEmptyKey(t *testing.T) {
	store, err := NewFSStore(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "", strings.NewReader("x"), "image/jpeg")
	assert.Error(t, err)
}

func TestFSStoreURL(t *testing.T) {
	store, err := NewFSStore(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/snapshots/a.jpg", store.URL("snapshots/a.jpg"))

	bare, err := NewFSStore(t.TempDir(), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(bare.URL("snapshots/a.jpg"), "file://"))
}

func TestFSStoreGetMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "snapshots/missing.jpg")
	assert.Error(t, err)
}
