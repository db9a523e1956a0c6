package driven

import (
	"context"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
)

// Sink receives the pipeline's downstream output.
type Sink interface {
	// Emit pushes one reconstructed file record downstream. Records arrive
	// in the order the compiler reported them.
	Emit(ctx context.Context, f domain.OutputFile) error

	// Complete signals end of stream. err is the single stream-level error,
	// or nil on success. The pipeline calls Complete exactly once.
	Complete(err error)
}
