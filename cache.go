package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Cache records completed entries so reruns are idempotent. One JSON file
// per fingerprint; a record exists only after the entry's destination file
// has been fully written.
type Cache struct {
	dir string
}

// NewCache opens the cache at dir, creating it if needed. An empty
// directory is a valid initial state.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &CacheError{Op: "init", Key: dir, Err: err}
	}
	return &Cache{dir: dir}, nil
}

// fingerprint derives the cache key for one feed+entry pair
func fingerprint(feedURL, entryID string) string {
	sum := sha256.Sum256([]byte(feedURL + "#" + entryID))
	return hex.EncodeToString(sum[:])
}

// Lookup reports whether the fingerprint has a completion record. A missing
// record is a miss, not an error.
func (c *Cache) Lookup(fp string) (bool, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, fp))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &CacheError{Op: "lookup", Key: fp, Err: err}
	}

	var record map[string]string
	if err := json.Unmarshal(data, &record); err != nil {
		return false, &CacheError{Op: "lookup", Key: fp, Err: err}
	}
	return record["processed"] == "yes", nil
}

// Commit writes the completion record. Callers invoke this only after the
// destination file write succeeded.
func (c *Cache) Commit(fp string) error {
	data, err := json.Marshal(map[string]string{"processed": "yes"})
	if err != nil {
		return &CacheError{Op: "commit", Key: fp, Err: err}
	}
	if err := os.WriteFile(filepath.Join(c.dir, fp), data, 0644); err != nil {
		return &CacheError{Op: "commit", Key: fp, Err: err}
	}
	return nil
}
