package cmd

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mj1618/desktop-recorder/internal/eventlog"
	"github.com/mj1618/desktop-recorder/internal/model"
)

// mcpCacheEntry holds a parsed control tree with the file state it was read from.
type mcpCacheEntry struct {
	tree      *model.Tree
	modTime   time.Time
	timestamp time.Time
}

// mcpTreeCache provides a TTL-based cache for control-tree snapshot files.
// An entry is also dropped when the file's modification time changes.
type mcpTreeCache struct {
	mu      sync.Mutex
	entries map[string]mcpCacheEntry
	ttl     time.Duration
	load    func(path string) (*model.Tree, error)
}

// newMCPTreeCache creates a new cache. A ttl of 0 disables caching.
func newMCPTreeCache(ttl time.Duration) *mcpTreeCache {
	return &mcpTreeCache{
		entries: make(map[string]mcpCacheEntry),
		ttl:     ttl,
		load:    eventlog.LoadTree,
	}
}

// readTree returns the cached tree if within TTL and unchanged on disk,
// otherwise reads it fresh.
func (c *mcpTreeCache) readTree(path string) (*model.Tree, error) {
	if c.ttl == 0 {
		return c.load(path)
	}

	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	info, err := os.Stat(path)
	if err != nil {
		c.invalidate(key)
		return c.load(path)
	}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && time.Since(entry.timestamp) < c.ttl && entry.modTime.Equal(info.ModTime()) {
		tree := entry.tree
		c.mu.Unlock()
		return tree, nil
	}
	c.mu.Unlock()

	tree, err := c.load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = mcpCacheEntry{tree: tree, modTime: info.ModTime(), timestamp: time.Now()}
	c.mu.Unlock()

	return tree, nil
}

// invalidate removes the entry for one snapshot path.
func (c *mcpTreeCache) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// invalidateAll clears the entire cache.
func (c *mcpTreeCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]mcpCacheEntry)
}
