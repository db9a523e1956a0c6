package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		compileCompilerFlag = ""
		compileModeFlag = ""
		compileOutFlag = ""
		compileArgFlags = nil
		compileRequireFlag = false
		compileNoCacheFlag = false
		configFlag = ""
		rootCmd.SetArgs(nil)
	})
}

func TestCompileCmd_Use(t *testing.T) {
	assert.Equal(t, "compile [files...]", compileCmd.Use)
}

func TestCompileCmd_Short(t *testing.T) {
	assert.Equal(t, "Compile JavaScript files through the external compiler", compileCmd.Short)
}

// fakeCompiler writes a shell script that echoes its stdin back, which
// is a valid JSON streams exchange: the request payload doubles as the
// response payload.
func fakeCompiler(t *testing.T, dir string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	path := filepath.Join(dir, "fakecc")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\ncat\n"), 0755))
	return path
}

func TestCompileCmd_EndToEnd(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(src, []byte("var a=1;"), 0644))
	out := filepath.Join(dir, "out")
	cc := fakeCompiler(t, dir)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"compile", "--compiler", cc, "--no-cache", "--out", out, src})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Compiled 1 files into "+out)

	rel := strings.TrimPrefix(domain.NormalizePath(src), "/")
	body, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "var a=1;", string(body))
}

func TestCompileCmd_InvalidMode(t *testing.T) {
	resetFlags(t)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"compile", "--mode", "SIDEWAYS", "a.js"})

	err := rootCmd.Execute()
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestCompileCmd_RequireInputNoFiles(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"compile", "--require-input", "--no-cache", "--out", out})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Compiled 0 files")
}

func TestCompileCmd_MissingCompiler(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(src, []byte("var a=1;"), 0644))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"compile", "--compiler", filepath.Join(dir, "no-such-cc"), "--no-cache", src})

	err := rootCmd.Execute()
	assert.ErrorIs(t, err, domain.ErrSpawn)
}

func TestResolveInvocation_FlagsOverrideConfig(t *testing.T) {
	resetFlags(t)
	compileCompilerFlag = "/opt/cc"
	compileModeFlag = "IN"
	compileOutFlag = "dist"
	compileArgFlags = []string{"-O", "SIMPLE"}

	cfg := domain.DefaultProjectConfig()
	opts, outDir, err := resolveInvocation(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/opt/cc", opts.CompilerPath)
	assert.Equal(t, domain.StreamIn, opts.Mode)
	assert.Equal(t, "dist", outDir)
	assert.Equal(t, []string{"-O", "SIMPLE"}, opts.Args)
}
