// Package memory provides an in-memory compile-result cache, used when no
// durable cache is configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
	"github.com/tidewater-labs/jspipe/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.CompileCache = (*Cache)(nil)

// Cache is a map-backed implementation of driven.CompileCache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]domain.OutputFile
}

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]domain.OutputFile)}
}

// Get returns the cached outputs for key.
func (c *Cache) Get(_ context.Context, key string) ([]domain.OutputFile, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	files, ok := c.entries[key]
	return files, ok, nil
}

// Put stores outputs under key.
func (c *Cache) Put(_ context.Context, key, _ string, files []domain.OutputFile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = files
	return nil
}

// Stats summarises the cache contents.
func (c *Cache) Stats(context.Context) (driven.CacheStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := driven.CacheStats{Entries: len(c.entries)}
	for _, files := range c.entries {
		for _, f := range files {
			stats.Bytes += int64(len(f.Contents) + len(f.SourceMap))
		}
	}
	return stats, nil
}

// Clear removes all entries.
func (c *Cache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]domain.OutputFile)
	return nil
}

// Close is a no-op.
func (c *Cache) Close() error {
	return nil
}
