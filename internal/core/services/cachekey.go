package services

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
)

// cacheKey digests everything that determines an invocation's output: the
// compiler, its flags, the stream mode and the ordered inputs. Length
// prefixes keep adjacent fields from aliasing.
func cacheKey(opts domain.Options, files []domain.FileRecord) string {
	h := sha256.New()
	writeField := func(b []byte) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}

	writeField([]byte(opts.CompilerPath))
	writeField([]byte(opts.Mode))
	for _, a := range opts.Args {
		writeField([]byte(a))
	}
	for _, f := range files {
		writeField([]byte(f.Path))
		writeField(f.Contents)
		writeField(f.SourceMap)
	}
	return hex.EncodeToString(h.Sum(nil))
}
