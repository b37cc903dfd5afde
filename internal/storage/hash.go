package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// HashReader consumes r and returns the hex SHA-256 digest of its contents.
// The reader is streamed through the hasher, so callers can hash large files
// without buffering them first.
func HashReader(r io.Reader) (string, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("failed to hash stream: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashBytes returns the hex SHA-256 digest of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashedCopy writes r to w while hashing it, returning bytes written and the
// hex digest, so backends can checksum during the single pass to disk.
func HashedCopy(w io.Writer, r io.Reader) (int64, string, error) {
	hasher := sha256.New()
	n, err := io.Copy(io.MultiWriter(w, hasher), r)
	if err != nil {
		return n, "", fmt.Errorf("failed to copy stream: %w", err)
	}
	return n, hex.EncodeToString(hasher.Sum(nil)), nil
}
