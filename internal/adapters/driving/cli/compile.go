package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidewater-labs/jspipe/internal/adapters/driven/compiler"
	"github.com/tidewater-labs/jspipe/internal/adapters/driven/emit"
	"github.com/tidewater-labs/jspipe/internal/core/domain"
	"github.com/tidewater-labs/jspipe/internal/core/ports/driven"
	"github.com/tidewater-labs/jspipe/internal/core/services"
	"github.com/tidewater-labs/jspipe/internal/logger"
)

var (
	compileCompilerFlag string
	compileModeFlag     string
	compileOutFlag      string
	compileArgFlags     []string
	compileRequireFlag  bool
	compileNoCacheFlag  bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compile JavaScript files through the external compiler",
	Long: `Reads the given files (or glob patterns) into an in-memory batch,
streams them to the compiler process as JSON, and writes the compiled
files into the output directory. Source maps found next to inputs are
chained into the emitted maps.`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileCompilerFlag, "compiler", "", "compiler executable (overrides config)")
	compileCmd.Flags().StringVar(&compileModeFlag, "mode", "", "JSON streams mode: BOTH or IN (overrides config)")
	compileCmd.Flags().StringVar(&compileOutFlag, "out", "", "output directory (overrides config)")
	compileCmd.Flags().StringArrayVar(&compileArgFlags, "flag", nil, "extra compiler flag, repeatable")
	compileCmd.Flags().BoolVar(&compileRequireFlag, "require-input", false, "skip the compiler entirely when no inputs matched")
	compileCmd.Flags().BoolVar(&compileNoCacheFlag, "no-cache", false, "bypass the compile-result cache")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	opts, outDir, err := resolveInvocation(cfg)
	if err != nil {
		return err
	}

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

// resolveInvocation merges the project configuration with the command
// flags into the options of one invocation.
func resolveInvocation(cfg domain.ProjectConfig) (domain.Options, string, error) {
	opts := domain.Options{
		CompilerPath: cfg.CompilerPath,
		Args:         cfg.CompilerArgs,
		Mode:         cfg.Mode,
		RequireInput: cfg.RequireInput || compileRequireFlag,
	}
	if compileCompilerFlag != "" {
		opts.CompilerPath = compileCompilerFlag
	}
	if compileModeFlag != "" {
		mode := domain.StreamMode(compileModeFlag)
		if !mode.Valid() {
			return domain.Options{}, "", fmt.Errorf("%w: %q", domain.ErrInvalidMode, compileModeFlag)
		}
		opts.Mode = mode
	}
	opts.Args = append(opts.Args, compileArgFlags...)

	outDir := cfg.OutDir
	if compileOutFlag != "" {
		outDir = compileOutFlag
	}
	return opts, outDir, nil
}

// compileOnce runs one full pipeline invocation over the collected inputs.
func compileOnce(
	ctx context.Context,
	cfg domain.ProjectConfig,
	opts domain.Options,
	outDir string,
	inputs []domain.FileRecord,
) (int, error) {
	cache, err := openCompileCache(cfg)
	if err != nil {
		return 0, err
	}
	if cache != nil {
		defer cache.Close()
	}

	sink := emit.NewDirSink(outDir)
	pipeline := services.NewCompilePipeline(opts, compiler.NewRunner(), sink, cache, logger.Diag{})

	for _, f := range inputs {
		if err := pipeline.Push(ctx, f); err != nil {
			return sink.Count(), err
		}
	}
	if err := pipeline.Flush(ctx); err != nil {
		return sink.Count(), err
	}
	return sink.Count(), nil
}

// openCompileCache honours the --no-cache override.
func openCompileCache(cfg domain.ProjectConfig) (driven.CompileCache, error) {
	if compileNoCacheFlag {
		return nil, nil
	}
	return openCache(cfg)
}
