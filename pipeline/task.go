package pipeline

import (
	"fmt"
	"sync/atomic"

	"opencraft/world"
)

// Kind is the work a task performs on a chunk.
type Kind uint8

const (
	Fill Kind = iota
	Mesh
)

func (k Kind) String() string {
	switch k {
	case Fill:
		return "fill"
	case Mesh:
		return "mesh"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// State is the lifecycle of a task: Queued, Running, then Done or Failed.
type State uint32

const (
	Queued State = iota
	Running
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Queued:
		return "queued"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", uint32(s))
}

// Task is one unit of chunk work. Attempt counts earlier failed runs of the
// same work.
type Task struct {
	Kind    Kind
	Key     world.Key
	Attempt int

	state atomic.Uint32
}

func (t *Task) State() State { return State(t.state.Load()) }

func (t *Task) setState(s State) { t.state.Store(uint32(s)) }

func (t *Task) String() string {
	x, z := t.Key.Unpack()
	return fmt.Sprintf("%v(%d, %d)#%d", t.Kind, x, z, t.Attempt)
}

type slot struct {
	kind Kind
	key  world.Key
}

func (t *Task) slot() slot { return slot{t.Kind, t.Key} }

// Result is delivered on one of the pipeline channels when a task ends.
type Result struct {
	Task  *Task
	Chunk *world.Chunk
	Err   error
}
