// Package emit provides downstream sinks for reconstructed file records.
package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
	"github.com/tidewater-labs/jspipe/internal/core/ports/driven"
)

// Ensure DirSink implements the interface.
var _ driven.Sink = (*DirSink)(nil)

// DirSink writes emitted records into an output directory, mirroring the
// stream-relative paths. A record's composed map, if present, is written
// as a .map side file next to it.
type DirSink struct {
	dir string

	// OnComplete, when set, observes the stream-level completion.
	OnComplete func(err error)

	completed bool
	count     int
}

// NewDirSink creates a sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Emit writes one record under the output directory.
func (s *DirSink) Emit(_ context.Context, f domain.OutputFile) error {
	rel := strings.TrimPrefix(f.Path, "/")
	if rel == "" {
		return fmt.Errorf("emitted record has no path")
	}
	target := filepath.Join(s.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(target, f.Contents, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if f.SourceMap != nil {
		if err := os.WriteFile(target+".map", f.SourceMap, 0644); err != nil {
			return fmt.Errorf("writing %s.map: %w", target, err)
		}
	}
	s.count++
	return nil
}

// Complete records the stream-level completion.
func (s *DirSink) Complete(err error) {
	if s.completed {
		return
	}
	s.completed = true
	if s.OnComplete != nil {
		s.OnComplete(err)
	}
}

// Count returns how many records were written.
func (s *DirSink) Count() int {
	return s.count
}
