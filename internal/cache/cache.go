// Package cache memoizes metadata records so unchanged files are
// never re-read through the external tool.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// FileKey derives a cache key from a file's identity: path, size and
// modification time. Touching or rewriting the file changes the key,
// so stale records age out instead of being served.
func FileKey(path string) (string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	id := fmt.Sprintf("%s|%d|%d", path, st.Size(), st.ModTime().UnixNano())
	hash := sha256.Sum256([]byte(id))
	return "phototz:v1:" + hex.EncodeToString(hash[:]), nil
}
