package server

import (
	"sync"
	"time"

	"github.com/mj1618/desktop-borders/internal/config"
)

// cacheEntry holds a loaded, validated configuration with its timestamp.
type cacheEntry struct {
	cfg       *config.Config
	diags     []config.Diagnostic
	timestamp time.Time
}

// ConfigCache provides a TTL-based cache of configuration files so repeated
// tool calls do not re-read and re-validate the same file.
type ConfigCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewConfigCache creates a new cache. A ttl of 0 disables caching.
func NewConfigCache(ttl time.Duration) *ConfigCache {
	return &ConfigCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Load returns the configuration at path with its validation diagnostics.
// An empty path yields the built-in defaults. The returned config is shared
// and must not be modified.
func (c *ConfigCache) Load(path string) (*config.Config, []config.Diagnostic, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.Validate(), nil
	}

	c.mu.Lock()
	if entry, ok := c.entries[path]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		c.mu.Unlock()
		return entry.cfg, entry.diags, nil
	}
	c.mu.Unlock()

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	diags := cfg.Validate()

	if c.ttl > 0 {
		c.mu.Lock()
		c.entries[path] = cacheEntry{cfg: cfg, diags: diags, timestamp: c.now()}
		c.mu.Unlock()
	}
	return cfg, diags, nil
}

// Invalidate removes the entry for path.
func (c *ConfigCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// InvalidateAll clears the entire cache.
func (c *ConfigCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
