package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoredObject describes a successfully written object. Hash is the hex
// SHA-256 of the bytes the backend actually wrote, computed in the same pass
// as the write.
type StoredObject struct {
	Key       string
	PublicURL string
	Size      int64
	Hash      string
}

// Backend is the uniform storage contract implemented by the local disk and
// S3 backends. Keys are slash-free names; the category decides the bucket or
// directory. Delete is idempotent: removing a missing key is not an error.
type Backend interface {
	Store(ctx context.Context, key string, body io.Reader, contentType string, category Category) (StoredObject, error)
	Delete(ctx context.Context, key string, category Category) error
	Exists(ctx context.Context, key string, category Category) (bool, error)
	// PublicURL derives the client-facing URL from the key alone, without I/O.
	PublicURL(key string, category Category) string
	Name() string
}

// BuildObjectKey creates the storage key for a new upload, of the form
// {id}-{timestamp}{ext}. The id starts with the content hash (the
// dedup-visible part) followed by a random tail, so legitimate re-uploads of
// identical bytes never collide on the key itself.
func BuildObjectKey(contentHash, originalName string) string {
	ext := strings.ToLower(path.Ext(SanitizeFilename(originalName)))
	prefix := contentHash
	if len(prefix) > 16 {
		prefix = prefix[:16]
	}
	tail := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s%s-%d%s", prefix, tail, time.Now().Unix(), ext)
}

// ThumbnailKey derives the thumbnail key for a stored object key.
func ThumbnailKey(key string) string {
	return "thumb-" + key
}
