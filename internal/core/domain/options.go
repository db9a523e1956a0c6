package domain

// StreamMode selects the compiler's JSON streams direction.
type StreamMode string

const (
	// StreamBoth expects JSON file batches on both stdin and stdout.
	StreamBoth StreamMode = "BOTH"

	// StreamIn feeds a JSON batch on stdin only; the compiler writes its
	// output through its own flags instead of stdout.
	StreamIn StreamMode = "IN"
)

// Valid reports whether the mode is a known protocol selector.
func (m StreamMode) Valid() bool {
	return m == StreamBoth || m == StreamIn
}

// DefaultPluginName labels stream-level errors when the caller does not
// override it.
const DefaultPluginName = "jspipe"

// Options configures one pipeline invocation.
type Options struct {
	// CompilerPath is the executable that performs the actual compilation.
	CompilerPath string

	// Args are the caller-supplied compiler flags. The streaming-mode flag
	// pair is appended after them.
	Args []string

	// Mode selects the JSON streams direction. Defaults to StreamBoth.
	Mode StreamMode

	// PluginName is the label carried by stream-level errors.
	PluginName string

	// RequireInput short-circuits the invocation when no files were
	// collected: the stream completes immediately and no process is
	// spawned.
	RequireInput bool
}

// Normalised returns a copy with defaults applied.
func (o Options) Normalised() Options {
	if o.Mode == "" {
		o.Mode = StreamBoth
	}
	if o.PluginName == "" {
		o.PluginName = DefaultPluginName
	}
	return o
}

// ProjectConfig is the persistent per-project configuration surface,
// typically loaded from jspipe.toml.
type ProjectConfig struct {
	// CompilerPath is the default compiler executable.
	CompilerPath string

	// CompilerArgs are default flags passed before the streaming flags.
	CompilerArgs []string

	// Mode is the default stream mode.
	Mode StreamMode

	// RequireInput mirrors Options.RequireInput.
	RequireInput bool

	// OutDir is where emitted files are written by the CLI host.
	OutDir string

	// CacheEnabled turns the compile-result cache on.
	CacheEnabled bool

	// CacheDir holds the cache database. Empty means the default location.
	CacheDir string

	// WatchPaths are the roots observed in watch mode.
	WatchPaths []string

	// WatchMaxPerSec caps how many rebuilds per second watch mode may run.
	WatchMaxPerSec float64
}

// DefaultProjectConfig returns the configuration used when no project file
// exists.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		CompilerPath:   "closure-compiler",
		Mode:           StreamBoth,
		OutDir:         "build",
		CacheEnabled:   true,
		WatchMaxPerSec: 1,
	}
}
