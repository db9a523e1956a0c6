// Package sourcemap decodes, composes and re-encodes version 3 source map
// documents. It carries just enough of the format to chain an output file's
// map through the maps of the inputs that produced it; position lookups
// inside input maps are delegated to the go-sourcemap consumer.
package sourcemap

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Map is a decoded version 3 source map document.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Parse decodes a serialized source map document.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing source map: %w", err)
	}
	if m.Version != 3 {
		return nil, fmt.Errorf("unsupported source map version %d", m.Version)
	}
	return &m, nil
}

// Encode serializes the map to its compact JSON text form.
func (m *Map) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Segment is one decoded mapping entry within a generated line.
// All positions are zero-based. Source, OrigLine, OrigCol and Name are -1
// when the segment does not carry the corresponding field.
type Segment struct {
	GenCol   int
	Source   int
	OrigLine int
	OrigCol  int
	Name     int
}

// DecodeMappings expands the VLQ mappings string into per-line segments.
func DecodeMappings(mappings string) ([][]Segment, error) {
	lines := strings.Split(mappings, ";")
	out := make([][]Segment, len(lines))

	// Source, line, column and name offsets accumulate across the whole
	// document; only the generated column resets at each line.
	source, origLine, origCol, name := 0, 0, 0, 0

	for li, line := range lines {
		genCol := 0
		if line == "" {
			continue
		}
		segs := make([]Segment, 0, strings.Count(line, ",")+1)
		for _, raw := range strings.Split(line, ",") {
			fields, err := decodeSegment(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", li+1, err)
			}
			genCol += fields[0]
			seg := Segment{GenCol: genCol, Source: -1, OrigLine: -1, OrigCol: -1, Name: -1}
			if len(fields) >= 4 {
				source += fields[1]
				origLine += fields[2]
				origCol += fields[3]
				seg.Source = source
				seg.OrigLine = origLine
				seg.OrigCol = origCol
			}
			if len(fields) == 5 {
				name += fields[4]
				seg.Name = name
			}
			segs = append(segs, seg)
		}
		out[li] = segs
	}
	return out, nil
}

// decodeSegment decodes one comma-separated segment into 1, 4 or 5 fields.
func decodeSegment(raw string) ([]int, error) {
	fields := make([]int, 0, 5)
	pos := 0
	for pos < len(raw) {
		if len(fields) == 5 {
			return nil, fmt.Errorf("segment %q has too many fields", raw)
		}
		v, next, err := decodeVLQ(raw, pos)
		if err != nil {
			return nil, err
		}
		fields = append(fields, v)
		pos = next
	}
	switch len(fields) {
	case 1, 4, 5:
		return fields, nil
	default:
		return nil, fmt.Errorf("segment %q has %d fields", raw, len(fields))
	}
}

// EncodeMappings is the inverse of DecodeMappings.
func EncodeMappings(lines [][]Segment) string {
	var b strings.Builder
	buf := make([]byte, 0, 16)
	source, origLine, origCol, name := 0, 0, 0, 0

	for li, segs := range lines {
		if li > 0 {
			b.WriteByte(';')
		}
		genCol := 0
		for si, seg := range segs {
			if si > 0 {
				b.WriteByte(',')
			}
			buf = appendVLQ(buf[:0], seg.GenCol-genCol)
			genCol = seg.GenCol
			if seg.Source >= 0 {
				buf = appendVLQ(buf, seg.Source-source)
				buf = appendVLQ(buf, seg.OrigLine-origLine)
				buf = appendVLQ(buf, seg.OrigCol-origCol)
				source, origLine, origCol = seg.Source, seg.OrigLine, seg.OrigCol
				if seg.Name >= 0 {
					buf = appendVLQ(buf, seg.Name-name)
					name = seg.Name
				}
			}
			b.Write(buf)
		}
	}
	return b.String()
}
