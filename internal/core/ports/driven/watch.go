package driven

// WatchEvent is one filesystem change under a watched root.
type WatchEvent struct {
	// Path is the changed file.
	Path string
}

// SourceWatcher reports filesystem changes under the watched roots.
type SourceWatcher interface {
	// Events delivers change notifications until Close.
	Events() <-chan WatchEvent

	// Errors delivers watcher failures.
	Errors() <-chan error

	// Close stops watching and closes both channels.
	Close() error
}
