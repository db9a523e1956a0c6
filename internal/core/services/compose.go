package services

import (
	"fmt"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
	"github.com/tidewater-labs/jspipe/internal/sourcemap"
)

// composeMaps rebuilds each output file's source map so it references the
// original pre-compilation sources, chaining through the input files' own
// maps in collection order. Files without a map pass through unmodified.
// Inputs whose path matches no mapped source degrade gracefully; they are
// reported through the debug log, not as errors.
func (p *CompilePipeline) composeMaps(outputs []domain.OutputFile) error {
	inputs := make([]sourcemap.InputMap, 0, len(p.files))
	for _, f := range p.files {
		if f.SourceMap == nil {
			continue
		}
		inputs = append(inputs, sourcemap.InputMap{Key: f.MapKey(), Raw: f.SourceMap})
	}

	for i := range outputs {
		if outputs[i].SourceMap == nil {
			continue
		}
		m, err := sourcemap.Parse(outputs[i].SourceMap)
		if err != nil {
			return fmt.Errorf("output %s: %w", outputs[i].Path, err)
		}
		composed, unmatched, err := sourcemap.Compose(m, inputs)
		if err != nil {
			return fmt.Errorf("output %s: %w", outputs[i].Path, err)
		}
		for _, key := range unmatched {
			p.log.Debugf("%s: input map %q matches no source in %s", p.opts.PluginName, key, outputs[i].Path)
		}
		data, err := composed.Encode()
		if err != nil {
			return fmt.Errorf("output %s: %w", outputs[i].Path, err)
		}
		outputs[i].SourceMap = data
	}
	return nil
}
