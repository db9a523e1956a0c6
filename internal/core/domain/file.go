package domain

import (
	"io"
	"path/filepath"
	"strings"
)

// FileRecord is one in-memory source file pushed into the pipeline by the
// host. Records are read-only once created; the pipeline never rewrites
// their contents.
type FileRecord struct {
	// Path is the stream-relative location, normalised with a leading slash.
	Path string

	// Contents is the fully buffered file body. A nil Contents with a nil
	// Stream marks an empty record, which the pipeline skips.
	Contents []byte

	// Stream is set when the body is only available as a live byte stream.
	// Streamed content is not supported and is rejected on push.
	Stream io.Reader

	// SourceMap is the serialized source map attached to the file at this
	// pipeline stage, or nil.
	SourceMap []byte
}

// Empty reports whether the record carries no content at all.
func (f FileRecord) Empty() bool {
	return f.Contents == nil && f.Stream == nil
}

// Streamed reports whether the record's content is only available as a
// live stream.
func (f FileRecord) Streamed() bool {
	return f.Contents == nil && f.Stream != nil
}

// MapKey is the source-name key the record occupies inside a compiler
// output map: the path with its leading slash stripped.
func (f FileRecord) MapKey() string {
	return strings.TrimPrefix(f.Path, "/")
}

// OutputFile is one file decoded from the compiler's response. Its
// SourceMap is replaced by the composed map before emission.
type OutputFile struct {
	Path      string
	Contents  []byte
	SourceMap []byte
}

// NormalizePath converts a host path into the stream-relative form used on
// FileRecords: forward slashes and exactly one leading slash.
func NormalizePath(p string) string {
	p = filepath.ToSlash(p)
	return "/" + strings.TrimLeft(p, "/")
}
