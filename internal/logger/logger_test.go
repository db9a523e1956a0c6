package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestDebug_GatedByVerbose(t *testing.T) {
	defer reset()
	buf := new(bytes.Buffer)
	SetOutput(buf)

	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG] shown 2")
}

func TestInfo_GatedByVerbose(t *testing.T) {
	defer reset()
	buf := new(bytes.Buffer)
	SetOutput(buf)

	Info("hidden")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Info("shown")
	assert.Contains(t, buf.String(), "[INFO] shown")
}

func TestWarn_AlwaysPrints(t *testing.T) {
	defer reset()
	buf := new(bytes.Buffer)
	SetOutput(buf)

	Warn("compiler said %s", "no")
	assert.Contains(t, buf.String(), "[WARN] compiler said no")
}

func TestIsVerbose(t *testing.T) {
	defer reset()
	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
}

func TestDiag_Forwards(t *testing.T) {
	defer reset()
	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(true)

	var d Diag
	d.Debugf("a %d", 1)
	d.Warnf("b %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG] a 1")
	assert.Contains(t, buf.String(), "[WARN] b 2")
}
