// Package driving defines the ports through which hosts drive the core.
package driving

import (
	"context"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
)

// Pipeline is one push-based compile stream. The host pushes file records
// in stream order, then flushes once at end-of-input, which runs the
// compiler and emits the results. A pipeline serves exactly one
// invocation; it cannot be reused after Flush.
type Pipeline interface {
	// Push hands one file record to the collector. Empty records are
	// silently dropped. Records with stream-backed content return
	// domain.ErrStreamedContent and are discarded; the pipeline keeps
	// accepting further files.
	Push(ctx context.Context, f domain.FileRecord) error

	// Flush signals end-of-input. It drives the whole invocation and
	// returns the stream-level error, if any. The sink's completion
	// callback fires exactly once on every path.
	Flush(ctx context.Context) error
}
