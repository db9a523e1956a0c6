package sourcemap

import (
	"fmt"

	gsm "github.com/go-sourcemap/sourcemap"
)

// InputMap pairs a source name, as it appears inside a downstream map's
// sources table, with the serialized map of the stage that produced that
// intermediate file.
type InputMap struct {
	Key string
	Raw []byte
}

// Compose rebuilds out so its mappings resolve through the given input maps
// to the original sources instead of the intermediate files. Inputs are
// applied in order; when two inputs claim the same source name the later
// one wins. Sources with no matching input map are left pointing at the
// intermediate name. The returned slice lists input keys that matched no
// source in out, or whose map could not be parsed.
func Compose(out *Map, inputs []InputMap) (*Map, []string, error) {
	lines, err := DecodeMappings(out.Mappings)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding output mappings: %w", err)
	}

	srcIndex := make(map[string]int, len(out.Sources))
	for i, s := range out.Sources {
		srcIndex[s] = i
	}

	// One consumer per output source index that an input map covers.
	consumers := make(map[int]*gsm.Consumer)
	var unmatched []string
	for _, in := range inputs {
		idx, ok := srcIndex[in.Key]
		if !ok {
			unmatched = append(unmatched, in.Key)
			continue
		}
		c, err := gsm.Parse(in.Key, in.Raw)
		if err != nil {
			unmatched = append(unmatched, in.Key)
			continue
		}
		consumers[idx] = c
	}

	b := newBuilder(out)
	for li, segs := range lines {
		for si, seg := range segs {
			lines[li][si] = b.resolve(seg, consumers)
		}
	}

	composed := &Map{
		Version:  3,
		File:     out.File,
		Sources:  b.sources,
		Names:    b.names,
		Mappings: EncodeMappings(lines),
	}
	if b.anyContent {
		composed.SourcesContent = b.contents
	}
	return composed, unmatched, nil
}

// builder interns source and name strings while segments are rewritten,
// producing the composed map's tables in first-use order.
type builder struct {
	out        *Map
	sources    []string
	contents   []string
	names      []string
	srcIdx     map[string]int
	nameIdx    map[string]int
	anyContent bool
}

func newBuilder(out *Map) *builder {
	return &builder{
		out:     out,
		srcIdx:  make(map[string]int),
		nameIdx: make(map[string]int),
	}
}

func (b *builder) internSource(name, content string) int {
	if i, ok := b.srcIdx[name]; ok {
		if content != "" && b.contents[i] == "" {
			b.contents[i] = content
			b.anyContent = true
		}
		return i
	}
	i := len(b.sources)
	b.srcIdx[name] = i
	b.sources = append(b.sources, name)
	b.contents = append(b.contents, content)
	if content != "" {
		b.anyContent = true
	}
	return i
}

func (b *builder) internName(name string) int {
	if i, ok := b.nameIdx[name]; ok {
		return i
	}
	i := len(b.names)
	b.nameIdx[name] = i
	b.names = append(b.names, name)
	return i
}

// resolve rewrites one segment through the input map covering its source,
// if any. Unmapped segments and unresolvable positions pass through with
// their tables re-interned.
func (b *builder) resolve(seg Segment, consumers map[int]*gsm.Consumer) Segment {
	if seg.Source < 0 {
		return seg
	}
	// A malformed output map can reference a source index beyond its own
	// sources table. Such a segment has no position to resolve; drop the
	// stale index rather than let it alias an interned source.
	if seg.Source >= len(b.out.Sources) {
		seg.Source = -1
		seg.Name = -1
		return seg
	}

	srcName := b.out.Sources[seg.Source]
	srcContent := ""
	if seg.Source < len(b.out.SourcesContent) {
		srcContent = b.out.SourcesContent[seg.Source]
	}
	name := ""
	if seg.Name >= 0 && seg.Name < len(b.out.Names) {
		name = b.out.Names[seg.Name]
	}

	if c, ok := consumers[seg.Source]; ok {
		// Consumer positions are 1-based lines, 0-based columns.
		src, nm, line, col, found := c.Source(seg.OrigLine+1, seg.OrigCol)
		if found && src != "" {
			srcName = src
			srcContent = c.SourceContent(src)
			seg.OrigLine = line - 1
			seg.OrigCol = col
			if nm != "" {
				name = nm
			}
		}
	}

	seg.Source = b.internSource(srcName, srcContent)
	if name != "" {
		seg.Name = b.internName(name)
	} else {
		seg.Name = -1
	}
	return seg
}
