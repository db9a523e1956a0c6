package services

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/tidewater-labs/jspipe/internal/core/ports/driven"
)

// RebuildFunc runs one full compile invocation.
type RebuildFunc func(ctx context.Context) error

// Watcher reruns the pipeline whenever sources change, throttled so bursts
// of filesystem events coalesce into a single rebuild.
type Watcher struct {
	watcher driven.SourceWatcher
	rebuild RebuildFunc
	limiter *rate.Limiter
	log     driven.Logger
}

// NewWatcher creates a watcher that rebuilds at most maxPerSec times per
// second. maxPerSec <= 0 disables throttling.
func NewWatcher(w driven.SourceWatcher, rebuild RebuildFunc, maxPerSec float64, log driven.Logger) *Watcher {
	if log == nil {
		log = nopLogger{}
	}
	limit := rate.Inf
	if maxPerSec > 0 {
		limit = rate.Limit(maxPerSec)
	}
	return &Watcher{
		watcher: w,
		rebuild: rebuild,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}
}

// Run blocks processing change events until ctx is cancelled or the
// watcher fails. Rebuild errors are logged and watching continues; a
// broken build should not stop the watch loop.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.watcher.Errors():
			if !ok {
				return nil
			}
			return fmt.Errorf("watching sources: %w", err)
		case ev, ok := <-w.watcher.Events():
			if !ok {
				return nil
			}
			// Coalesce: events arriving while we are over the rate are
			// dropped; the rebuild they would trigger is already covered.
			if !w.limiter.Allow() {
				w.log.Debugf("watch: coalescing change to %s", ev.Path)
				continue
			}
			w.log.Debugf("watch: change to %s, rebuilding", ev.Path)
			if err := w.rebuild(ctx); err != nil {
				w.log.Warnf("watch: rebuild failed: %v", err)
			}
		}
	}
}
