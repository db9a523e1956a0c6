// Package sqlite provides the SQLite-backed compile-result cache.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tidewater-labs/jspipe/internal/core/domain"
	"github.com/tidewater-labs/jspipe/internal/core/ports/driven"
)

// schema holds one row per cached invocation; outputs are stored as a
// JSON-encoded file batch, the same shape the compiler itself produces.
const schema = `
CREATE TABLE IF NOT EXISTS compile_results (
	key           TEXT PRIMARY KEY,
	invocation_id TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL,
	files         BLOB NOT NULL
);
`

// Ensure Cache implements the interface.
var _ driven.CompileCache = (*Cache)(nil)

// Cache is a SQLite-based implementation of driven.CompileCache.
type Cache struct {
	db   *sql.DB
	path string
}

// cachedFile is the stored projection of one output file.
type cachedFile struct {
	Path      string `json:"path"`
	Src       string `json:"src"`
	SourceMap string `json:"source_map,omitempty"`
}

// NewCache opens (or creates) the cache database in dataDir. An empty
// dataDir selects .jspipe in the working directory.
func NewCache(dataDir string) (*Cache, error) {
	if dataDir == "" {
		dataDir = ".jspipe"
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cache.db")

	// WAL mode keeps watch-mode rebuilds from stalling on each other.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising cache schema: %w", err)
	}

	return &Cache{db: db, path: dbPath}, nil
}

// Get returns the cached outputs for key.
func (c *Cache) Get(ctx context.Context, key string) ([]domain.OutputFile, bool, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT files FROM compile_results WHERE key = ?`, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}

	var stored []cachedFile
	if err := json.Unmarshal(blob, &stored); err != nil {
		return nil, false, fmt.Errorf("decoding cached files: %w", err)
	}
	files := make([]domain.OutputFile, len(stored))
	for i, f := range stored {
		files[i] = domain.OutputFile{Path: f.Path, Contents: []byte(f.Src)}
		if f.SourceMap != "" {
			files[i].SourceMap = []byte(f.SourceMap)
		}
	}
	return files, true, nil
}

// Put stores the outputs of a successful invocation, replacing any prior
// entry for the same key.
func (c *Cache) Put(ctx context.Context, key, invocationID string, files []domain.OutputFile) error {
	stored := make([]cachedFile, len(files))
	for i, f := range files {
		stored[i] = cachedFile{Path: f.Path, Src: string(f.Contents), SourceMap: string(f.SourceMap)}
	}
	blob, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encoding cached files: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO compile_results (key, invocation_id, created_at, files)
		 VALUES (?, ?, ?, ?)`,
		key, invocationID, time.Now().UTC(), blob)
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}
	return nil
}

// Stats summarises the cache contents.
func (c *Cache) Stats(ctx context.Context) (driven.CacheStats, error) {
	var stats driven.CacheStats
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(files)), 0) FROM compile_results`).
		Scan(&stats.Entries, &stats.Bytes)
	if err != nil {
		return driven.CacheStats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return stats, nil
}

// Clear removes all entries.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM compile_results`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}
