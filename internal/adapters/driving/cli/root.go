// Package cli provides the jspipe command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tidewater-labs/jspipe/internal/adapters/driven/config/file"
	"github.com/tidewater-labs/jspipe/internal/adapters/driven/storage/sqlite"
	"github.com/tidewater-labs/jspipe/internal/core/domain"
	"github.com/tidewater-labs/jspipe/internal/core/ports/driven"
	"github.com/tidewater-labs/jspipe/internal/logger"
)

var (
	// version is injected by Execute.
	version = "dev"

	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "jspipe",
	Short: "Pipe JavaScript file batches through the Closure Compiler",
	Long: `jspipe collects JavaScript source files, feeds them to an external
Closure Compiler process over its JSON streams protocol, and writes the
compiled files back out with source maps recomposed against the original
sources.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to jspipe.toml (default ./jspipe.toml)")
}

// Execute runs the CLI with the given build version.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}

// loadConfig reads the project configuration, honouring --config.
func loadConfig(ctx context.Context) (domain.ProjectConfig, error) {
	return file.NewConfigStore(configFlag).Load(ctx)
}

// openCache returns the configured compile cache, or nil when caching is
// disabled.
func openCache(cfg domain.ProjectConfig) (driven.CompileCache, error) {
	if !cfg.CacheEnabled {
		return nil, nil
	}
	return sqlite.NewCache(cfg.CacheDir)
}
