package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectInputs_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(path, []byte("var a=1;"), 0644))

	records, err := collectInputs([]string{path})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []byte("var a=1;"), records[0].Contents)
	assert.True(t, filepath.IsAbs(path))
	assert.Nil(t, records[0].SourceMap)
}

func TestCollectInputs_AttachesMapSideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(path, []byte("var a=1;"), 0644))
	require.NoError(t, os.WriteFile(path+".map", []byte(`{"version":3}`), 0644))

	records, err := collectInputs([]string{path})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{"version":3}`, string(records[0].SourceMap))
}

func TestCollectInputs_Glob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.js"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.js"), []byte("b"), 0644))

	records, err := collectInputs([]string{filepath.Join(dir, "*.js")})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Contains(t, records[0].Path, "a.js")
	assert.Contains(t, records[1].Path, "b.js")
}

func TestCollectInputs_MissingFile(t *testing.T) {
	_, err := collectInputs([]string{filepath.Join(t.TempDir(), "nope.js")})
	assert.Error(t, err)
}
