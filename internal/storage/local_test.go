package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLocalBackend(t *testing.T) (*LocalBackend, string) {
	t.Helper()
	root := t.TempDir()
	backend, err := NewLocalBackend(root, "/uploads")
	require.NoError(t, err)
	return backend, root
}

func TestLocalBackendStoreAndExists(t *testing.T) {
	backend, root := newTestLocalBackend(t)
	ctx := context.Background()

	obj, err := backend.Store(ctx, "photo.jpg", bytes.NewReader([]byte("jpeg bytes")), "image/jpeg", CategoryImages)
	require.NoError(t, err)
	require.Equal(t, "photo.jpg", obj.Key)
	require.Equal(t, "/uploads/images/photo.jpg", obj.PublicURL)
	require.Equal(t, int64(len("jpeg bytes")), obj.Size)
	require.Equal(t, HashBytes([]byte("jpeg bytes")), obj.Hash, "checksum is computed in the write pass")

	written, err := os.ReadFile(filepath.Join(root, "images", "photo.jpg"))
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg bytes"), written)

	exists, err := backend.Exists(ctx, "photo.jpg", CategoryImages)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = backend.Exists(ctx, "photo.jpg", CategoryDocuments)
	require.NoError(t, err)
	require.False(t, exists)

	// no stray .part files after a successful write
	entries, err := os.ReadDir(filepath.Join(root, "images"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestLocalBackendDeleteIsIdempotent(t *testing.T) {
	backend, _ := newTestLocalBackend(t)
	ctx := context.Background()

	_, err := backend.Store(ctx, "doomed.pdf", bytes.NewReader([]byte("pdf")), "application/pdf", CategoryDocuments)
	require.NoError(t, err)

	require.NoError(t, backend.Delete(ctx, "doomed.pdf", CategoryDocuments))
	require.NoError(t, backend.Delete(ctx, "doomed.pdf", CategoryDocuments))

	exists, err := backend.Exists(ctx, "doomed.pdf", CategoryDocuments)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestLocalBackendPublicURLIsPure(t *testing.T) {
	backend, _ := newTestLocalBackend(t)
	// URL derivation must not depend on the object existing.
	require.Equal(t, "/uploads/videos/clip.mp4", backend.PublicURL("clip.mp4", CategoryVideos))
}

func TestLocalBackendParityContract(t *testing.T) {
	// The parity half of the backend contract that can run without a bucket:
	// a successful store returns a non-empty key and public URL.
	backend, _ := newTestLocalBackend(t)
	obj, err := backend.Store(context.Background(), "k.txt", bytes.NewReader([]byte("x")), "text/plain", CategoryDocuments)
	require.NoError(t, err)
	require.NotEmpty(t, obj.Key)
	require.NotEmpty(t, obj.PublicURL)
}

func TestLocalBackendRespectsCancelledContext(t *testing.T) {
	backend, _ := newTestLocalBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := backend.Store(ctx, "never.txt", bytes.NewReader([]byte("x")), "text/plain", CategoryDocuments)
	require.Error(t, err)
}
