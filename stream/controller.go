// Package stream keeps the world around the player generated and meshed.
// A Controller is driven once per frame from the goroutine that owns the
// graphics device.
package stream

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"opencraft/pipeline"
	"opencraft/world"
)

// Window is the area swept around the player's region, in chunk offsets
// from the region corner. Bounds are inclusive.
type Window struct {
	MinDX, MaxDX int
	MinDZ, MaxDZ int
}

// DefaultWindow spans 20 chunks along x and 21 along z.
func DefaultWindow() Window {
	return Window{MinDX: -10, MaxDX: 9, MinDZ: -10, MaxDZ: 10}
}

type Options struct {
	Window     Window
	MaxRetries int
	Logger     *slog.Logger
}

// Stats is a snapshot for logs and the HUD.
type Stats struct {
	Regions      int
	Chunks       int
	Uploads      uint64
	UploadErrors uint64
	Retries      uint64
	Dropped      uint64
	FillBacklog  int
	MeshBacklog  int
	Pipeline     pipeline.Stats
}

type Controller struct {
	log     *slog.Logger
	terrain *world.Terrain
	pipe    *pipeline.Pipeline
	opts    Options

	region  world.Key
	started bool

	// Work the pipeline refused for lack of budget, by key, with the
	// attempt number to dispatch.
	fillBacklog map[world.Key]int
	meshBacklog map[world.Key]int

	stats Stats
}

func New(t *world.Terrain, p *pipeline.Pipeline, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Window == (Window{}) {
		opts.Window = DefaultWindow()
	}
	return &Controller{
		log:         opts.Logger,
		terrain:     t,
		pipe:        p,
		opts:        opts,
		fillBacklog: make(map[world.Key]int),
		meshBacklog: make(map[world.Key]int),
	}
}

// RegionOf returns the key of the 64-aligned region containing pos.
func RegionOf(pos mgl32.Vec3) world.Key {
	x := int(math.Floor(float64(pos.X())))
	z := int(math.Floor(float64(pos.Z())))
	return world.PackKey(int32(world.FloorToRegionGrid(x)), int32(world.FloorToRegionGrid(z)))
}

// Tick sweeps the window when the player crossed into a new region, then
// collects finished work: filled chunks go to meshing, built meshes are
// uploaded here on the caller's goroutine, failures are retried.
func (c *Controller) Tick(pos mgl32.Vec3) {
	region := RegionOf(pos)
	if !c.started || region != c.region {
		c.started = true
		c.region = region
		c.sweep(region)
	}

	c.drainFilled()
	c.drainMeshed()
	c.drainFailed()
	c.flushBacklog()
}

func (c *Controller) sweep(region world.Key) {
	rx, rz := region.Origin()
	w := c.opts.Window
	c.log.Debug("sweeping stream window", "x", rx, "z", rz)

	for dx := w.MinDX; dx <= w.MaxDX; dx++ {
		for dz := w.MinDZ; dz <= w.MaxDZ; dz++ {
			x, z := rx+dx*world.ChunkWidth, rz+dz*world.ChunkDepth
			if !c.terrain.RegionGenerated(x, z) {
				for _, ch := range c.terrain.InstantiateRegion(x, z) {
					c.queueFill(ch.Key(), 0)
				}
				c.stats.Regions++
				continue
			}

			ch, err := c.terrain.ChunkAt(x, z)
			if err != nil {
				ch = c.terrain.InstantiateChunkAt(x, z)
			}
			switch {
			case !ch.Populated():
				c.queueFill(ch.Key(), 0)
			case !ch.MeshBuilt():
				c.queueMesh(ch, 0)
			}
		}
	}
}

func (c *Controller) queueFill(k world.Key, attempt int) {
	if !c.pipe.DispatchFill(k, attempt) {
		c.fillBacklog[k] = attempt
		return
	}
	delete(c.fillBacklog, k)
}

func (c *Controller) queueMesh(ch *world.Chunk, attempt int) {
	if !c.pipe.DispatchMesh(ch, attempt) {
		c.meshBacklog[ch.Key()] = attempt
		return
	}
	delete(c.meshBacklog, ch.Key())
}

// remeshNeighbors rebuilds the linked neighbors of a freshly filled chunk
// whose meshes were built, or are being built, against its empty blocks.
func (c *Controller) remeshNeighbors(ch *world.Chunk) {
	for _, d := range world.Lateral {
		k, ok := ch.Neighbor(d)
		if !ok {
			continue
		}
		n, ok := c.terrain.ChunkByKey(k)
		if !ok || !n.Populated() {
			continue
		}
		if n.MeshBuilt() || c.pipe.InFlight(pipeline.Mesh, k) {
			c.queueMesh(n, 0)
		}
	}
}

// Each drain only takes what was queued when it started, so a busy pool
// cannot hold up the frame.
func (c *Controller) drainFilled() {
	ch := c.pipe.Filled()
	for n := len(ch); n > 0; n-- {
		r := <-ch
		c.queueMesh(r.Chunk, 0)
		c.remeshNeighbors(r.Chunk)
	}
}

func (c *Controller) drainMeshed() {
	ch := c.pipe.Meshed()
	for n := len(ch); n > 0; n-- {
		r := <-ch
		if err := c.terrain.Upload(r.Chunk); err != nil {
			c.stats.UploadErrors++
			c.log.Warn("chunk upload failed", "chunk", r.Chunk.String(), "error", err)
			continue
		}
		c.stats.Uploads++
	}
}

func (c *Controller) drainFailed() {
	ch := c.pipe.Failed()
	for n := len(ch); n > 0; n-- {
		r := <-ch
		t := r.Task
		if t.Attempt >= c.opts.MaxRetries {
			c.stats.Dropped++
			c.log.Warn("giving up on chunk task", "task", t.String(), "error", r.Err)
			continue
		}
		c.stats.Retries++
		switch t.Kind {
		case pipeline.Fill:
			c.queueFill(t.Key, t.Attempt+1)
		case pipeline.Mesh:
			chunk, ok := c.terrain.ChunkByKey(t.Key)
			if !ok {
				continue
			}
			c.queueMesh(chunk, t.Attempt+1)
		}
	}
}

// flushBacklog re-dispatches refused work until the pipeline refuses again.
func (c *Controller) flushBacklog() {
	for k, attempt := range c.fillBacklog {
		if !c.pipe.DispatchFill(k, attempt) {
			return
		}
		delete(c.fillBacklog, k)
	}
	for k, attempt := range c.meshBacklog {
		ch, ok := c.terrain.ChunkByKey(k)
		if !ok {
			delete(c.meshBacklog, k)
			continue
		}
		if !c.pipe.DispatchMesh(ch, attempt) {
			return
		}
		delete(c.meshBacklog, k)
	}
}

// Pending reports whether any work is queued, running or waiting to be
// collected.
func (c *Controller) Pending() bool {
	return len(c.fillBacklog) > 0 || len(c.meshBacklog) > 0 || !c.pipe.Idle()
}

func (c *Controller) Stats() Stats {
	s := c.stats
	s.Chunks = c.terrain.ChunkCount()
	s.FillBacklog = len(c.fillBacklog)
	s.MeshBacklog = len(c.meshBacklog)
	s.Pipeline = c.pipe.Stats()
	return s
}
