package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewater-labs/jspipe/internal/core/ports/driven"
)

// fakeWatcher feeds scripted events.
type fakeWatcher struct {
	events chan driven.WatchEvent
	errs   chan error
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		events: make(chan driven.WatchEvent, 16),
		errs:   make(chan error, 1),
	}
}

func (w *fakeWatcher) Events() <-chan driven.WatchEvent { return w.events }
func (w *fakeWatcher) Errors() <-chan error             { return w.errs }

// Close closes only the event channel so Run drains buffered events
// before observing termination.
func (w *fakeWatcher) Close() error {
	close(w.events)
	return nil
}

// countingRebuild counts invocations safely across goroutines.
type countingRebuild struct {
	mu    sync.Mutex
	count int
	err   error
}

func (r *countingRebuild) fn(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	return r.err
}

func (r *countingRebuild) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func TestWatcher_RebuildsOnChange(t *testing.T) {
	fw := newFakeWatcher()
	rb := &countingRebuild{}
	w := NewWatcher(fw, rb.fn, 0, nil)

	fw.events <- driven.WatchEvent{Path: "src/a.js"}
	require.NoError(t, fw.Close())

	err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rb.calls())
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	fw := newFakeWatcher()
	rb := &countingRebuild{}
	// One rebuild per second: a burst collapses into a single run.
	w := NewWatcher(fw, rb.fn, 1, nil)

	for i := 0; i < 10; i++ {
		fw.events <- driven.WatchEvent{Path: "src/a.js"}
	}
	require.NoError(t, fw.Close())

	err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rb.calls())
}

func TestWatcher_RebuildFailureKeepsWatching(t *testing.T) {
	fw := newFakeWatcher()
	rb := &countingRebuild{err: errors.New("compile failed")}
	log := &captureLogger{}
	w := NewWatcher(fw, rb.fn, 0, log)

	fw.events <- driven.WatchEvent{Path: "src/a.js"}
	fw.events <- driven.WatchEvent{Path: "src/b.js"}
	require.NoError(t, fw.Close())

	err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rb.calls())
	assert.Len(t, log.warns, 2)
}

func TestWatcher_WatcherErrorStopsRun(t *testing.T) {
	fw := newFakeWatcher()
	rb := &countingRebuild{}
	w := NewWatcher(fw, rb.fn, 0, nil)

	fw.errs <- errors.New("inotify limit")

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inotify limit")
}

func TestWatcher_ContextCancellation(t *testing.T) {
	fw := newFakeWatcher()
	rb := &countingRebuild{}
	w := NewWatcher(fw, rb.fn, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
