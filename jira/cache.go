package jira

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Cache is a file-based issue cache with a TTL. Entries are JSON files named
// by a hash of the issue key, so keys never need escaping.
type Cache struct {
	dir string
	ttl time.Duration
}

type cacheEntry struct {
	CachedAt time.Time `json:"cached_at"`
	Key      string    `json:"key"`
	Value    Issue     `json:"value"`
}

// NewCache creates a cache rooted at dir with the given TTL
func NewCache(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl}
}

func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])[:16]+".json")
}

// Get returns the cached issue for a key, or false when missing, expired or
// unreadable. Expired entries are removed.
func (c *Cache) Get(key string) (*Issue, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if time.Since(entry.CachedAt) > c.ttl {
		_ = os.Remove(c.path(key))
		return nil, false
	}
	issue := entry.Value
	return &issue, true
}

// Set stores an issue. Write failures are dropped: the cache is an
// optimization, not a store of record.
func (c *Cache) Set(key string, issue *Issue) {
	if issue == nil {
		return
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return
	}
	entry := cacheEntry{CachedAt: time.Now(), Key: key, Value: *issue}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(c.path(key), data, 0644)
}

// Clear removes all cached entries and returns how many were deleted
func (c *Cache) Clear() int {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return 0
	}
	count := 0
	for _, path := range matches {
		if os.Remove(path) == nil {
			count++
		}
	}
	return count
}
