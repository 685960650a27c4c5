// Package render has a graphics device that keeps meshes in memory. It backs
// the -headless mode of the viewer and the tests of every package that
// uploads or draws chunks.
package render

import (
	"sync"

	"opencraft/world"
)

// Device counts uploads instead of talking to a GPU.
type Device struct {
	mu       sync.Mutex
	uploads  int
	releases int
	vertices int
}

func NewDevice() *Device { return &Device{} }

func (d *Device) Upload(m *world.Mesh) (world.GPUMesh, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.uploads++
	n := m.Opaque.VertexCount() + m.Transparent.VertexCount()
	d.vertices += n
	return &Mesh{
		dev:         d,
		opaque:      len(m.Opaque.Indices),
		transparent: len(m.Transparent.Indices),
		vertices:    n,
	}, nil
}

// DeviceStats summarizes what the device holds.
type DeviceStats struct {
	Uploads  int
	Releases int
	Live     int
	Vertices int
}

func (d *Device) Stats() DeviceStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DeviceStats{
		Uploads:  d.uploads,
		Releases: d.releases,
		Live:     d.uploads - d.releases,
		Vertices: d.vertices,
	}
}

// Mesh is an uploaded mesh held by a Device.
type Mesh struct {
	dev         *Device
	opaque      int
	transparent int
	vertices    int
	released    bool
}

func (m *Mesh) IndexCount(transparent bool) int {
	if transparent {
		return m.transparent
	}
	return m.opaque
}

func (m *Mesh) Release() {
	if m.released {
		return
	}
	m.released = true
	m.dev.mu.Lock()
	m.dev.releases++
	m.dev.vertices -= m.vertices
	m.dev.mu.Unlock()
}

// Call is one recorded draw.
type Call struct {
	Key         world.Key
	Transparent bool
	Indices     int
}

// Recorder is a draw target that remembers every call.
type Recorder struct {
	Calls []Call
}

func (r *Recorder) DrawChunk(c *world.Chunk, transparent bool) {
	r.Calls = append(r.Calls, Call{Key: c.Key(), Transparent: transparent, Indices: c.IndexCount(transparent)})
}

func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }
