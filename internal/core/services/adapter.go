// Package services implements the core compile pipeline: collection of
// pushed file records, the JSON streams exchange with the compiler
// process, and reconstruction of the results.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
	"github.com/tidewater-labs/jspipe/internal/core/ports/driven"
	"github.com/tidewater-labs/jspipe/internal/core/ports/driving"
)

// writeChunkSize is how much of the request payload is handed to the
// process input per write. Writes block while the input buffer is full,
// so chunking keeps the pipeline from committing the whole payload ahead
// of the compiler's consumption.
const writeChunkSize = 1024

// Ensure CompilePipeline implements the interface.
var _ driving.Pipeline = (*CompilePipeline)(nil)

// CompilePipeline is one compile invocation: it collects pushed records,
// supervises the compiler process and emits the reconstructed files. It
// holds no state shared with other invocations.
type CompilePipeline struct {
	opts   domain.Options
	runner driven.Runner
	sink   driven.Sink
	cache  driven.CompileCache
	log    driven.Logger

	// id labels this invocation in logs and cache rows.
	id string

	state     runState
	files     []domain.FileRecord
	completed bool
}

// nopLogger discards all diagnostics.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

// NewCompilePipeline creates a pipeline for a single invocation.
// cache may be nil to disable result replay; log may be nil to discard
// diagnostics.
func NewCompilePipeline(
	opts domain.Options,
	runner driven.Runner,
	sink driven.Sink,
	cache driven.CompileCache,
	log driven.Logger,
) *CompilePipeline {
	if log == nil {
		log = nopLogger{}
	}
	return &CompilePipeline{
		opts:   opts.Normalised(),
		runner: runner,
		sink:   sink,
		cache:  cache,
		log:    log,
		id:     uuid.NewString(),
		state:  stateIdle,
	}
}

// Push collects one file record in stream order. It never blocks and
// never inspects content.
func (p *CompilePipeline) Push(_ context.Context, f domain.FileRecord) error {
	if p.state.terminal() {
		return fmt.Errorf("%s: %w", p.opts.PluginName, domain.ErrPipelineDone)
	}
	if f.Empty() {
		p.log.Debugf("%s: invocation %s: skipping empty record %s", p.opts.PluginName, p.id, f.Path)
		return nil
	}
	if f.Streamed() {
		return fmt.Errorf("%s: %s: %w", p.opts.PluginName, f.Path, domain.ErrStreamedContent)
	}
	p.files = append(p.files, f)
	return nil
}

// Flush signals end-of-input and drives the invocation to completion.
// The sink's completion callback fires exactly once, on success and on
// every error path.
func (p *CompilePipeline) Flush(ctx context.Context) error {
	if p.state.terminal() {
		return fmt.Errorf("%s: %w", p.opts.PluginName, domain.ErrPipelineDone)
	}
	err := p.run(ctx)
	p.complete(err)
	return err
}

// run executes the invocation state machine.
func (p *CompilePipeline) run(ctx context.Context) error {
	// End-of-stream short-circuit: nothing collected and input required.
	if len(p.files) == 0 && p.opts.RequireInput {
		p.log.Debugf("%s: invocation %s: no input files, skipping compile", p.opts.PluginName, p.id)
		return p.transition(stateDone)
	}

	payload, err := encodeRequest(p.files)
	if err != nil {
		return fmt.Errorf("%s: %w", p.opts.PluginName, err)
	}

	key := cacheKey(p.opts, p.files)
	if done, err := p.replayFromCache(ctx, key); done || err != nil {
		return err
	}

	args := p.assembleArgs()
	proc, err := p.runner.Start(ctx, p.opts.CompilerPath, args)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", p.opts.PluginName, domain.ErrSpawn, err)
	}
	if err := p.transition(stateSpawned); err != nil {
		return err
	}
	p.log.Debugf("%s: invocation %s: spawned %s", p.opts.PluginName, p.id, p.commandLine(args))

	if err := p.transition(stateWriting); err != nil {
		return err
	}
	if err := p.writeRequest(proc, payload); err != nil {
		// Reap the process so it does not outlive the failed invocation.
		_, _ = proc.Wait()
		return err
	}

	if err := p.transition(stateAwaitingExit); err != nil {
		return err
	}
	res, err := proc.Wait()
	if err != nil {
		return fmt.Errorf("%s: %w: %v", p.opts.PluginName, domain.ErrSpawn, err)
	}

	// Diagnostics are not inherently errors; the compiler reports warnings
	// on stderr too. Logged only after exit so the text is complete.
	if len(res.Stderr) > 0 {
		p.log.Warnf("%s: %s", p.opts.PluginName, strings.TrimSpace(string(res.Stderr)))
	}

	if err := p.transition(stateDecoding); err != nil {
		return err
	}
	outputs, decErr := decodeResponse(res.Stdout)
	if decErr == nil {
		if err := p.composeMaps(outputs); err != nil {
			decErr = fmt.Errorf("%w: %v", domain.ErrResponseParse, err)
		}
	}

	// Output already captured is still processed for partial results even
	// when the compiler failed.
	if decErr == nil {
		if err := p.transition(stateEmitting); err != nil {
			return err
		}
		for _, f := range outputs {
			if err := p.sink.Emit(ctx, f); err != nil {
				return fmt.Errorf("%s: emitting %s: %w", p.opts.PluginName, f.Path, err)
			}
		}
	}

	if res.ExitCode != 0 {
		return fmt.Errorf("%s: %w (exit %d): `%s`\n%s",
			p.opts.PluginName, domain.ErrCompile, res.ExitCode,
			p.commandLine(args), strings.TrimSpace(string(res.Stderr)))
	}
	if decErr != nil {
		return fmt.Errorf("%s: %w", p.opts.PluginName, decErr)
	}

	p.storeInCache(ctx, key, outputs)
	return p.transition(stateDone)
}

// assembleArgs appends the streaming-mode flag pair after the caller's own
// arguments; the compiler's argument order is significant.
func (p *CompilePipeline) assembleArgs() []string {
	args := make([]string, 0, len(p.opts.Args)+2)
	args = append(args, p.opts.Args...)
	return append(args, "--json_streams", string(p.opts.Mode))
}

// commandLine renders the full invocation for error messages, so failures
// are reproducible by hand.
func (p *CompilePipeline) commandLine(args []string) string {
	return strings.Join(append([]string{p.opts.CompilerPath}, args...), " ")
}

// writeRequest feeds the payload to the process input in fixed-size
// chunks and closes the input after the final one.
func (p *CompilePipeline) writeRequest(proc driven.Process, payload []byte) error {
	for off := 0; off < len(payload); off += writeChunkSize {
		end := off + writeChunkSize
		if end > len(payload) {
			end = len(payload)
		}
		if _, err := proc.Write(payload[off:end]); err != nil {
			return fmt.Errorf("%s: %w: %v", p.opts.PluginName, domain.ErrStdinWrite, err)
		}
	}
	if err := proc.CloseInput(); err != nil {
		return fmt.Errorf("%s: %w: %v", p.opts.PluginName, domain.ErrStdinWrite, err)
	}
	return nil
}

// replayFromCache emits a prior invocation's outputs when the cache holds
// an entry for key. Cache failures degrade to a normal compile.
func (p *CompilePipeline) replayFromCache(ctx context.Context, key string) (bool, error) {
	if p.cache == nil {
		return false, nil
	}
	outputs, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.log.Warnf("%s: cache lookup failed: %v", p.opts.PluginName, err)
		return false, nil
	}
	if !ok {
		return false, nil
	}
	p.log.Debugf("%s: invocation %s: cache hit, replaying %d files", p.opts.PluginName, p.id, len(outputs))
	for _, f := range outputs {
		if err := p.sink.Emit(ctx, f); err != nil {
			return true, fmt.Errorf("%s: emitting %s: %w", p.opts.PluginName, f.Path, err)
		}
	}
	return true, p.transition(stateDone)
}

// storeInCache records a successful invocation's outputs. Failures are
// logged, never fatal.
func (p *CompilePipeline) storeInCache(ctx context.Context, key string, outputs []domain.OutputFile) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Put(ctx, key, p.id, outputs); err != nil {
		p.log.Warnf("%s: cache store failed: %v", p.opts.PluginName, err)
	}
}

// complete finishes the stream exactly once, failing the state machine
// first when an error is being reported.
func (p *CompilePipeline) complete(err error) {
	if p.completed {
		return
	}
	p.completed = true
	if err != nil && !p.state.terminal() {
		p.state = stateFailed
	}
	p.sink.Complete(err)
}
