package driven

import (
	"context"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
)

// CompileCache replays the outputs of prior invocations whose inputs,
// flags and mode are unchanged.
type CompileCache interface {
	// Get returns the cached outputs for key, and whether the key was
	// present.
	Get(ctx context.Context, key string) ([]domain.OutputFile, bool, error)

	// Put stores the outputs of a successful invocation under key.
	// invocationID records which run produced the entry.
	Put(ctx context.Context, key, invocationID string, files []domain.OutputFile) error

	// Stats summarises the cache contents.
	Stats(ctx context.Context) (CacheStats, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// CacheStats summarises the compile-result cache.
type CacheStats struct {
	// Entries is the number of cached invocations.
	Entries int

	// Bytes is the total stored payload size.
	Bytes int64
}
