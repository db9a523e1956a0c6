// Package file provides the TOML-backed project configuration store.
// Configuration lives in a jspipe.toml file at the project root.
package file

import (
	"context"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
	"github.com/tidewater-labs/jspipe/internal/core/ports/driven"
)

// DefaultFileName is the project configuration file looked up when the
// caller does not name one.
const DefaultFileName = "jspipe.toml"

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using
// TOML.
type ConfigStore struct {
	filePath string
}

// NewConfigStore creates a store backed by the given file. An empty path
// selects jspipe.toml in the working directory.
func NewConfigStore(filePath string) *ConfigStore {
	if filePath == "" {
		filePath = DefaultFileName
	}
	return &ConfigStore{filePath: filePath}
}

// fileSchema is the on-disk TOML shape.
type fileSchema struct {
	Compiler compilerSection `toml:"compiler"`
	Stream   streamSection   `toml:"stream"`
	Cache    cacheSection    `toml:"cache"`
	Watch    watchSection    `toml:"watch"`
}

type compilerSection struct {
	Path string   `toml:"path"`
	Args []string `toml:"args"`
}

type streamSection struct {
	Mode         string `toml:"mode"`
	RequireInput bool   `toml:"require_input"`
	OutDir       string `toml:"out_dir"`
}

type cacheSection struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type watchSection struct {
	Paths     []string `toml:"paths"`
	MaxPerSec float64  `toml:"max_per_sec"`
}

// Load reads the configuration file. A missing file yields the defaults,
// not an error.
func (s *ConfigStore) Load(_ context.Context) (domain.ProjectConfig, error) {
	cfg := domain.DefaultProjectConfig()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", s.filePath, err)
	}

	// Seed the schema with the defaults so keys absent from the file
	// keep their default values.
	schema := fileSchema{
		Compiler: compilerSection{Path: cfg.CompilerPath, Args: cfg.CompilerArgs},
		Stream: streamSection{
			Mode:         string(cfg.Mode),
			RequireInput: cfg.RequireInput,
			OutDir:       cfg.OutDir,
		},
		Cache: cacheSection{Enabled: cfg.CacheEnabled, Dir: cfg.CacheDir},
		Watch: watchSection{Paths: cfg.WatchPaths, MaxPerSec: cfg.WatchMaxPerSec},
	}
	if err := toml.Unmarshal(data, &schema); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	mode := domain.StreamMode(schema.Stream.Mode)
	if !mode.Valid() {
		return cfg, fmt.Errorf("%w: %q in %s", domain.ErrInvalidMode, schema.Stream.Mode, s.filePath)
	}

	cfg.CompilerPath = schema.Compiler.Path
	cfg.CompilerArgs = schema.Compiler.Args
	cfg.Mode = mode
	cfg.RequireInput = schema.Stream.RequireInput
	cfg.OutDir = schema.Stream.OutDir
	cfg.CacheEnabled = schema.Cache.Enabled
	cfg.CacheDir = schema.Cache.Dir
	cfg.WatchPaths = schema.Watch.Paths
	cfg.WatchMaxPerSec = schema.Watch.MaxPerSec
	return cfg, nil
}

// Save persists the configuration with restricted permissions.
func (s *ConfigStore) Save(_ context.Context, cfg domain.ProjectConfig) error {
	schema := fileSchema{
		Compiler: compilerSection{Path: cfg.CompilerPath, Args: cfg.CompilerArgs},
		Stream: streamSection{
			Mode:         string(cfg.Mode),
			RequireInput: cfg.RequireInput,
			OutDir:       cfg.OutDir,
		},
		Cache: cacheSection{Enabled: cfg.CacheEnabled, Dir: cfg.CacheDir},
		Watch: watchSection{Paths: cfg.WatchPaths, MaxPerSec: cfg.WatchMaxPerSec},
	}

	data, err := toml.Marshal(schema)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the backing file location.
func (s *ConfigStore) Path() string {
	return s.filePath
}
