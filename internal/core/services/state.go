package services

import (
	"fmt"

	"github.com/tidewater-labs/jspipe/internal/core/domain"
)

// runState is the explicit invocation state. Every external event (chunk
// written, process exit, decode result) is a transition; the table below
// is the single source of truth for which transitions are legal.
type runState int

const (
	stateIdle runState = iota
	stateSpawned
	stateWriting
	stateAwaitingExit
	stateDecoding
	stateEmitting
	stateDone
	stateFailed
)

var stateNames = map[runState]string{
	stateIdle:         "idle",
	stateSpawned:      "spawned",
	stateWriting:      "writing",
	stateAwaitingExit: "awaiting-exit",
	stateDecoding:     "decoding",
	stateEmitting:     "emitting",
	stateDone:         "done",
	stateFailed:       "failed",
}

func (s runState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("runState(%d)", int(s))
}

// terminal reports whether the state admits no further transitions.
func (s runState) terminal() bool {
	return s == stateDone || s == stateFailed
}

// transitions lists the legal successors of each state. Any non-terminal
// state may additionally move to stateFailed.
var transitions = map[runState][]runState{
	stateIdle:         {stateSpawned, stateDone},
	stateSpawned:      {stateWriting},
	stateWriting:      {stateAwaitingExit},
	stateAwaitingExit: {stateDecoding},
	stateDecoding:     {stateEmitting},
	stateEmitting:     {stateDone},
}

// canTransition reports whether moving from to next is legal.
func canTransition(from, next runState) bool {
	if next == stateFailed {
		return !from.terminal()
	}
	for _, s := range transitions[from] {
		if s == next {
			return true
		}
	}
	return false
}

// transition advances the invocation state, or reports a pipeline bug.
func (p *CompilePipeline) transition(next runState) error {
	if !canTransition(p.state, next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrBadTransition, p.state, next)
	}
	p.state = next
	return nil
}
