// Package driven defines the ports the core depends on.
package driven

import "context"

// Runner launches compiler processes.
type Runner interface {
	// Start spawns the compiler with the assembled argument list. The
	// returned process is live; its input is open for writing.
	Start(ctx context.Context, path string, args []string) (Process, error)
}

// Process is one live compiler subprocess. Writes block while the process
// input buffer is full, which is the native form of back-pressure here.
type Process interface {
	// Write delivers one chunk of the request payload to the process input.
	Write(p []byte) (int, error)

	// CloseInput signals end-of-input to the process. It must be called
	// after the final chunk even when the payload is empty.
	CloseInput() error

	// Wait blocks until the process terminates and returns its captured
	// output, diagnostic text and exit status. A non-nil error means the
	// process could not be reaped at all, not a non-zero exit.
	Wait() (ProcessResult, error)
}

// ProcessResult is the terminal state of a compiler process.
type ProcessResult struct {
	// Stdout is the accumulated standard output text.
	Stdout []byte

	// Stderr is the accumulated diagnostic text. Warnings arrive here even
	// on successful runs.
	Stderr []byte

	// ExitCode is the process exit status. Zero means success.
	ExitCode int
}
