// Package cache implements a disk-backed key/value store with expiry.
//
// Each entry is one JSON blob whose filename is the md5 of the logical
// key; a single _metadata.json index records per-key creation time and
// size for time-to-live eviction. Callers treat any failure as a miss,
// so the engine stays correct with the cache directory wiped or absent.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atlasinovacoes/faturamento/internal/logging"
)

var log = logging.Log

const metadataFile = "_metadata.json"

type entryMeta struct {
	Created   time.Time `json:"created"`
	File      string    `json:"file"`
	SizeBytes int64     `json:"size_bytes"`
}

// Cache is a directory of serialized blobs with TTL-based expiry.
type Cache struct {
	dir      string
	ttl      time.Duration
	metadata map[string]entryMeta
}

// Stats summarizes the cache contents.
type Stats struct {
	Items       int       `json:"items"`
	TotalSizeMB float64   `json:"total_size_mb"`
	Dir         string    `json:"cache_dir"`
	TTLHours    float64   `json:"ttl_hours"`
	OldestItem  time.Time `json:"oldest_item,omitzero"`
}

// New opens (or creates) a cache directory with the given TTL.
func New(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	c := &Cache{dir: dir, ttl: ttl, metadata: make(map[string]entryMeta)}
	c.loadMetadata()
	return c, nil
}

func (c *Cache) metadataPath() string {
	return filepath.Join(c.dir, metadataFile)
}

func (c *Cache) loadMetadata() {
	data, err := os.ReadFile(c.metadataPath())
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, &c.metadata); err != nil {
		log.WithError(err).Warn("cache metadata unreadable, starting empty")
		c.metadata = make(map[string]entryMeta)
	}
}

func (c *Cache) saveMetadata() error {
	data, err := json.MarshalIndent(c.metadata, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.metadataPath(), data, 0644)
}

func fileKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) blobPath(key string) string {
	return filepath.Join(c.dir, fileKey(key)+".json")
}

// Get loads the value stored under key into v. It returns false on a
// miss and a non-nil error only for actual I/O or decode failures, which
// callers should treat as a miss after logging.
func (c *Cache) Get(key string, v interface{}) (bool, error) {
	path := c.blobPath(key)
	if _, err := os.Stat(path); err != nil {
		return false, nil
	}

	if meta, ok := c.metadata[key]; ok {
		if time.Since(meta.Created) > c.ttl {
			c.Delete(key)
			return false, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read cache entry %q: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode cache entry %q: %w", key, err)
	}
	return true, nil
}

// Set stores v under key, replacing any previous entry.
func (c *Cache) Set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}
	path := c.blobPath(key)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write cache entry %q: %w", key, err)
	}

	c.metadata[key] = entryMeta{
		Created:   time.Now(),
		File:      filepath.Base(path),
		SizeBytes: int64(len(data)),
	}
	if err := c.saveMetadata(); err != nil {
		log.WithError(err).Warn("could not save cache metadata")
	}
	return nil
}

// Delete removes the entry stored under key, if any.
func (c *Cache) Delete(key string) error {
	path := c.blobPath(key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	if _, ok := c.metadata[key]; ok {
		delete(c.metadata, key)
		if err := c.saveMetadata(); err != nil {
			log.WithError(err).Warn("could not save cache metadata")
		}
	}
	return nil
}

// Clear removes every entry and returns how many blobs were deleted.
func (c *Cache) Clear() int {
	count := 0
	blobs, _ := filepath.Glob(filepath.Join(c.dir, "*.json"))
	for _, p := range blobs {
		if filepath.Base(p) == metadataFile {
			continue
		}
		if err := os.Remove(p); err == nil {
			count++
		}
	}
	c.metadata = make(map[string]entryMeta)
	if err := c.saveMetadata(); err != nil {
		log.WithError(err).Warn("could not save cache metadata")
	}
	return count
}

// CleanupExpired removes only entries older than the TTL and returns how
// many were removed.
func (c *Cache) CleanupExpired() int {
	now := time.Now()
	var expired []string
	for key, meta := range c.metadata {
		if now.Sub(meta.Created) > c.ttl {
			expired = append(expired, key)
		}
	}
	count := 0
	for _, key := range expired {
		if err := c.Delete(key); err == nil {
			count++
		}
	}
	return count
}

// Stats reports the current cache contents.
func (c *Cache) Stats() Stats {
	var totalSize int64
	var oldest time.Time
	for _, meta := range c.metadata {
		if info, err := os.Stat(filepath.Join(c.dir, meta.File)); err == nil {
			totalSize += info.Size()
		}
		if oldest.IsZero() || meta.Created.Before(oldest) {
			oldest = meta.Created
		}
	}
	return Stats{
		Items:       len(c.metadata),
		TotalSizeMB: float64(totalSize) / 1024 / 1024,
		Dir:         c.dir,
		TTLHours:    c.ttl.Hours(),
		OldestItem:  oldest,
	}
}
