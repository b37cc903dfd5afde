package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildObjectKey(t *testing.T) {
	hash := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

	key := BuildObjectKey(hash, "Team Photo.JPG")
	require.True(t, strings.HasPrefix(key, hash[:16]))
	require.True(t, strings.HasSuffix(key, ".jpg"))
	require.NotContains(t, key, "/")

	// Re-uploads of identical content must not collide on the key.
	other := BuildObjectKey(hash, "Team Photo.JPG")
	require.NotEqual(t, key, other)
	require.Equal(t, key[:16], other[:16])
}

func TestBuildObjectKeyShortHash(t *testing.T) {
	key := BuildObjectKey("abc", "x.png")
	require.True(t, strings.HasPrefix(key, "abc"))
	require.True(t, strings.HasSuffix(key, ".png"))
}

func TestThumbnailKey(t *testing.T) {
	require.Equal(t, "thumb-abc.jpg", ThumbnailKey("abc.jpg"))
}
