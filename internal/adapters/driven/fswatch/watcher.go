// Package fswatch adapts fsnotify to the core's source watcher port.
package fswatch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/tidewater-labs/jspipe/internal/core/ports/driven"
)

// Ensure Watcher implements the interface.
var _ driven.SourceWatcher = (*Watcher)(nil)

// Watcher reports filesystem changes under a set of root directories,
// including directories created after watching started.
type Watcher struct {
	fs     *fsnotify.Watcher
	exts   []string
	events chan driven.WatchEvent
	errs   chan error
	done   chan struct{}
}

// New starts watching the given roots recursively. When exts is non-empty
// only changes to files with one of those suffixes are reported.
func New(roots, exts []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fs:     fw,
		exts:   exts,
		events: make(chan driven.WatchEvent, 16),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}

	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			fw.Close()
			return nil, err
		}
	}

	go w.loop()
	return w, nil
}

// addRecursive watches root and every directory below it.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// loop translates fsnotify events to port events until Close.
func (w *Watcher) loop() {
	defer close(w.errs)
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories join the watch set so files created inside
			// them are observed too.
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(ev.Name)
					continue
				}
			}
			if !w.match(ev.Name) {
				continue
			}
			select {
			case w.events <- driven.WatchEvent{Path: filepath.ToSlash(ev.Name)}:
			case <-w.done:
				return
			}
		}
	}
}

// Events delivers change notifications.
func (w *Watcher) Events() <-chan driven.WatchEvent {
	return w.events
}

// Errors delivers watcher failures.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

// match reports whether the changed path carries one of the watched
// suffixes. An empty suffix list matches everything.
func (w *Watcher) match(path string) bool {
	if len(w.exts) == 0 {
		return true
	}
	for _, ext := range w.exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
