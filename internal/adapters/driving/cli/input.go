package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
	"github.com/tidewater-labs/jspipe/internal/logger"
)

// collectInputs reads the named files or glob patterns into file records,
// preserving argument order; the compiler's argument order is significant.
// A .map side file next to an input is attached as its source map.
func collectInputs(args []string) ([]domain.FileRecord, error) {
	var records []domain.FileRecord
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			// Not a pattern: treat as a literal path so a missing file
			// surfaces as a read error instead of vanishing.
			matches = []string{pattern}
		}
		for _, m := range matches {
			contents, err := os.ReadFile(m)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", m, err)
			}
			rec := domain.FileRecord{Path: domain.NormalizePath(m), Contents: contents}
			if sm, err := os.ReadFile(m + ".map"); err == nil {
				logger.Debug("attaching source map %s.map", m)
				rec.SourceMap = sm
			}
			records = append(records, rec)
		}
	}
	return records, nil
}
