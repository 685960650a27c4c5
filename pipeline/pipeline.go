// Package pipeline runs chunk generation and meshing on a bounded worker
// pool and hands the results back over channels.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"golang.org/x/sync/semaphore"

	"opencraft/world"
)

// ErrPanic wraps a panic recovered inside a task.
var ErrPanic = errors.New("pipeline: task panicked")

// Filler populates a chunk's blocks. It must only write the chunk it is
// given.
type Filler interface {
	Fill(c *world.Chunk)
}

type Options struct {
	Workers      int
	MaxInFlight  int
	ResultBuffer int
	Logger       *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = o.Workers * 8
	}
	if o.ResultBuffer <= 0 {
		o.ResultBuffer = o.MaxInFlight
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Stats is a snapshot of pipeline counters.
type Stats struct {
	Submitted uint64
	Done      uint64
	Failed    uint64
	Deduped   uint64
	Refused   uint64
	InFlight  int
}

type flight struct {
	again bool
}

// Pipeline owns the worker pool. Dispatch methods are called from a single
// coordinating goroutine and never block; results are read from Filled,
// Meshed and Failed by the same goroutine.
type Pipeline struct {
	log    *slog.Logger
	index  world.Resolver
	filler Filler

	pool pond.Pool
	sem  *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	inflight map[slot]*flight
	closed   bool

	filled chan Result
	meshed chan Result
	failed chan Result

	submitted atomic.Uint64
	done      atomic.Uint64
	failures  atomic.Uint64
	deduped   atomic.Uint64
	refused   atomic.Uint64
}

// New starts a pool of opts.Workers goroutines that resolves chunks through
// index and fills them with filler.
func New(index world.Resolver, filler Filler, opts Options) *Pipeline {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		log:      opts.Logger,
		index:    index,
		filler:   filler,
		pool:     pond.NewPool(opts.Workers),
		sem:      semaphore.NewWeighted(int64(opts.MaxInFlight)),
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[slot]*flight),
		filled:   make(chan Result, opts.ResultBuffer),
		meshed:   make(chan Result, opts.ResultBuffer),
		failed:   make(chan Result, opts.ResultBuffer),
	}
}

// Filled delivers chunks whose generation finished.
func (p *Pipeline) Filled() <-chan Result { return p.filled }

// Meshed delivers chunks with a freshly built mesh awaiting upload.
func (p *Pipeline) Meshed() <-chan Result { return p.meshed }

// Failed delivers tasks that returned an error or panicked.
func (p *Pipeline) Failed() <-chan Result { return p.failed }

// DispatchFill schedules generation of the chunk with key k. It returns
// false when the in-flight budget is spent or the pipeline is closed; the
// caller should try again later. A fill already in flight for k absorbs the
// request.
func (p *Pipeline) DispatchFill(k world.Key, attempt int) bool {
	return p.dispatch(&Task{Kind: Fill, Key: k, Attempt: attempt}, nil)
}

// DispatchMesh schedules a mesh rebuild of c. A request for a chunk whose
// mesh is already being built makes that task build once more before it
// reports, so the delivered mesh reflects every change made before this
// call.
func (p *Pipeline) DispatchMesh(c *world.Chunk, attempt int) bool {
	return p.dispatch(&Task{Kind: Mesh, Key: c.Key(), Attempt: attempt}, c)
}

func (p *Pipeline) dispatch(t *Task, c *world.Chunk) bool {
	s := t.slot()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	if f, ok := p.inflight[s]; ok {
		if t.Kind == Mesh {
			f.again = true
		}
		p.deduped.Add(1)
		return true
	}
	if !p.sem.TryAcquire(1) {
		p.refused.Add(1)
		return false
	}
	p.inflight[s] = &flight{}
	p.submitted.Add(1)
	p.pool.Submit(func() {
		p.run(t, c)
	})
	return true
}

// InFlight reports whether a task of kind k is queued or running for key.
func (p *Pipeline) InFlight(k Kind, key world.Key) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.inflight[slot{k, key}]
	return ok
}

// Idle reports whether no task is in flight and no result is waiting.
func (p *Pipeline) Idle() bool {
	p.mu.Lock()
	n := len(p.inflight)
	p.mu.Unlock()
	return n == 0 && len(p.filled) == 0 && len(p.meshed) == 0 && len(p.failed) == 0
}

func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	n := len(p.inflight)
	p.mu.Unlock()
	return Stats{
		Submitted: p.submitted.Load(),
		Done:      p.done.Load(),
		Failed:    p.failures.Load(),
		Deduped:   p.deduped.Load(),
		Refused:   p.refused.Load(),
		InFlight:  n,
	}
}

// Close stops accepting work and waits for running tasks. Results that no
// one reads any more are dropped.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.pool.StopAndWait()
}

func (p *Pipeline) run(t *Task, c *world.Chunk) {
	t.setState(Running)

	s := t.slot()
	var err error
	for {
		c, err = p.work(t, c)
		if err != nil {
			p.forget(s)
			break
		}
		if !p.again(s) {
			break
		}
	}

	if err != nil {
		t.setState(Failed)
		p.failures.Add(1)
		p.log.Warn("chunk task failed", "task", t.String(), "error", err)
		p.send(p.failed, Result{Task: t, Chunk: c, Err: fmt.Errorf("%v: %w", t, err)})
		return
	}

	t.setState(Done)
	p.done.Add(1)
	if c == nil {
		// The chunk was never registered or is gone; nothing to report.
		return
	}
	switch t.Kind {
	case Fill:
		p.send(p.filled, Result{Task: t, Chunk: c})
	case Mesh:
		p.send(p.meshed, Result{Task: t, Chunk: c})
	}
}

func (p *Pipeline) work(t *Task, c *world.Chunk) (out *world.Chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = c, fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	switch t.Kind {
	case Fill:
		chunk, ok := p.index.ChunkByKey(t.Key)
		if !ok {
			return nil, nil
		}
		p.filler.Fill(chunk)
		return chunk, nil
	case Mesh:
		if c == nil {
			return nil, errors.New("mesh task without a chunk")
		}
		c.BuildMesh(p.index)
		return c, nil
	}
	return c, fmt.Errorf("unknown task kind %v", t.Kind)
}

// again consumes a pending rerun request, or retires the slot.
func (p *Pipeline) again(s slot) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if f := p.inflight[s]; f != nil && f.again {
		f.again = false
		return true
	}
	p.retireLocked(s)
	return false
}

func (p *Pipeline) forget(s slot) {
	p.mu.Lock()
	p.retireLocked(s)
	p.mu.Unlock()
}

// retireLocked frees the slot and its share of the in-flight budget
// together, so a caller that sees no task in flight can dispatch again.
func (p *Pipeline) retireLocked(s slot) {
	delete(p.inflight, s)
	p.sem.Release(1)
}

func (p *Pipeline) send(ch chan<- Result, r Result) {
	select {
	case ch <- r:
	case <-p.ctx.Done():
	}
}
