package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
)

// wireFile is the JSON projection of one file in the compiler's streaming
// protocol, used identically for requests and responses.
type wireFile struct {
	Path      string `json:"path"`
	Src       string `json:"src"`
	SourceMap string `json:"source_map,omitempty"`
}

// encodeRequest serializes the collected records into the request payload,
// preserving collection order. An empty list encodes as a well-formed
// empty array; the compiler still expects a payload on its input.
func encodeRequest(files []domain.FileRecord) ([]byte, error) {
	entries := make([]wireFile, 0, len(files))
	for _, f := range files {
		e := wireFile{Path: f.Path, Src: string(f.Contents)}
		if f.SourceMap != nil {
			e.SourceMap = string(f.SourceMap)
		}
		entries = append(entries, e)
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return payload, nil
}

// decodeResponse parses the compiler's accumulated standard output.
// Whitespace-only output yields zero records, which is a valid state when
// no output is expected.
func decodeResponse(stdout []byte) ([]domain.OutputFile, error) {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var entries []wireFile
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResponseParse, err)
	}
	out := make([]domain.OutputFile, len(entries))
	for i, e := range entries {
		out[i] = domain.OutputFile{Path: e.Path, Contents: []byte(e.Src)}
		if e.SourceMap != "" {
			out[i].SourceMap = []byte(e.SourceMap)
		}
	}
	return out, nil
}
