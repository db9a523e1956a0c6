package domain

import "errors"

// Domain errors represent pipeline failures. Infrastructure errors are
// wrapped around these sentinels so callers can branch with errors.Is.
var (
	// ErrStreamedContent indicates a pushed record whose content is only
	// available as a live stream. The record is discarded; the stream keeps
	// accepting other files.
	ErrStreamedContent = errors.New("streamed file content is not supported")

	// ErrSpawn indicates the compiler process could not be started, for
	// example because the required runtime is missing.
	ErrSpawn = errors.New("failed to spawn compiler process")

	// ErrStdinWrite indicates an I/O failure while feeding the request
	// payload to the compiler's input.
	ErrStdinWrite = errors.New("failed to write to compiler stdin")

	// ErrCompile indicates the compiler exited with a non-zero status.
	// Output captured before the failure may still be partially processed.
	ErrCompile = errors.New("compilation failed")

	// ErrResponseParse indicates the compiler's standard output was not a
	// well-formed JSON file batch. No files are emitted.
	ErrResponseParse = errors.New("failed to parse compiler output")

	// ErrPipelineDone indicates a push or flush after the invocation has
	// already run to completion or failure.
	ErrPipelineDone = errors.New("pipeline already completed")

	// ErrBadTransition indicates an illegal invocation state change.
	// It signals a bug in the pipeline, not a user error.
	ErrBadTransition = errors.New("illegal pipeline state transition")

	// ErrInvalidMode indicates an unknown stream mode value.
	ErrInvalidMode = errors.New("invalid stream mode")
)
