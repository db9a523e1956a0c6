// Package compiler runs the external compiler as a local subprocess.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/tidewater-labs/jspipe/internal/core/ports/driven"
)

// Ensure Runner implements the interface.
var _ driven.Runner = (*Runner)(nil)

// Runner spawns compiler processes with os/exec.
type Runner struct{}

// NewRunner creates a subprocess runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Start launches the compiler. Stdout and stderr are captured into
// growing buffers by the exec machinery while the caller feeds stdin, so
// large outputs cannot deadlock the input side.
func (*Runner) Start(ctx context.Context, path string, args []string) (driven.Process, error) {
	cmd := exec.CommandContext(ctx, path, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}

	p := &process{cmd: cmd, stdin: stdin}
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

// process is one live compiler subprocess.
type process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (p *process) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

func (p *process) CloseInput() error {
	return p.stdin.Close()
}

// Wait reaps the process. A non-zero exit is reported through the result,
// not as an error.
func (p *process) Wait() (driven.ProcessResult, error) {
	err := p.cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return driven.ProcessResult{}, err
	}
	return driven.ProcessResult{
		Stdout:   p.stdout.Bytes(),
		Stderr:   p.stderr.Bytes(),
		ExitCode: p.cmd.ProcessState.ExitCode(),
	}, nil
}
