package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tidewater-labs/jspipe/internal/adapters/driven/fswatch"
	"github.com/tidewater-labs/jspipe/internal/core/services"
	"github.com/tidewater-labs/jspipe/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Recompile whenever watched sources change",
	Long: `Runs an initial compile of the given files, then watches the configured
source directories and recompiles the batch on every change. Stops on
interrupt.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&compileCompilerFlag, "compiler", "", "compiler executable (overrides config)")
	watchCmd.Flags().StringVar(&compileModeFlag, "mode", "", "JSON streams mode: BOTH or IN (overrides config)")
	watchCmd.Flags().StringVar(&compileOutFlag, "out", "", "output directory (overrides config)")
	watchCmd.Flags().StringArrayVar(&compileArgFlags, "flag", nil, "extra compiler flag, repeatable")
	watchCmd.Flags().BoolVar(&compileNoCacheFlag, "no-cache", false, "bypass the compile-result cache")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	opts, outDir, err := resolveInvocation(cfg)
	if err != nil {
		return err
	}

	rebuild := func(ctx context.Context) error {
		inputs, err := collectInputs(args)
		if err != nil {
			return err
		}
		written, err := compileOnce(ctx, cfg, opts, outDir, inputs)
		if err != nil {
			return err
		}
		cmd.Printf("Compiled %d files into %s.\n", written, outDir)
		return nil
	}

	// First build up front so the watch loop starts from a known state.
	if err := rebuild(ctx); err != nil {
		logger.Warn("initial build failed: %v", err)
	}

	roots := cfg.WatchPaths
	if len(roots) == 0 {
		roots = []string{"."}
	}
	fw, err := fswatch.New(roots, []string{".js", ".js.map"})
	if err != nil {
		return err
	}
	defer fw.Close()

	cmd.Printf("Watching %v for changes...\n", roots)
	err = services.NewWatcher(fw, rebuild, cfg.WatchMaxPerSec, logger.Diag{}).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
