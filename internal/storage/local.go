package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend stores objects under a fixed upload root, one flat directory
// per category. Public URLs are paths served statically by the front end.
type LocalBackend struct {
	root    string
	baseURL string
}

func NewLocalBackend(root, publicBaseURL string) (*LocalBackend, error) {
	for _, cat := range Categories() {
		if err := os.MkdirAll(filepath.Join(root, string(cat)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload dir for %s: %w", cat, err)
		}
	}
	return &LocalBackend{root: root, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (b *LocalBackend) Name() string { return "local" }

func (b *LocalBackend) Store(ctx context.Context, key string, body io.Reader, contentType string, category Category) (StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return StoredObject{}, err
	}
	absPath := b.absPath(key, category)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return StoredObject{}, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	// Write to a temp file first so a failed write never leaves a partial
	// object at the final path.
	tmp := absPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return StoredObject{}, fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	defer f.Close()

	n, hash, err := HashedCopy(f, body)
	if err != nil {
		_ = os.Remove(tmp)
		return StoredObject{}, fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := f.Sync(); err != nil {
		_ = os.Remove(tmp)
		return StoredObject{}, fmt.Errorf("failed to sync %s: %w", key, err)
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return StoredObject{}, fmt.Errorf("failed to finalize %s: %w", key, err)
	}

	return StoredObject{Key: key, PublicURL: b.PublicURL(key, category), Size: n, Hash: hash}, nil
}

func (b *LocalBackend) Delete(ctx context.Context, key string, category Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(b.absPath(key, category))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (b *LocalBackend) Exists(ctx context.Context, key string, category Category) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(b.absPath(key, category))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", key, err)
}

func (b *LocalBackend) PublicURL(key string, category Category) string {
	return fmt.Sprintf("%s/%s/%s", b.baseURL, category, key)
}

// AbsolutePath exposes the on-disk location of a key, for callers that serve
// files directly.
func (b *LocalBackend) AbsolutePath(key string, category Category) string {
	return b.absPath(key, category)
}

func (b *LocalBackend) absPath(key string, category Category) string {
	return filepath.Join(b.root, string(category), filepath.FromSlash(key))
}
