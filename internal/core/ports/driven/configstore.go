package driven

import (
	"context"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
)

// ConfigStore loads and persists the project configuration.
type ConfigStore interface {
	// Load reads the configuration, falling back to defaults when no file
	// exists.
	Load(ctx context.Context) (domain.ProjectConfig, error)

	// Save persists the configuration.
	Save(ctx context.Context, cfg domain.ProjectConfig) error

	// Path returns the backing file location.
	Path() string
}
