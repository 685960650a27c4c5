package world

import (
	"fmt"
	"sort"
	"sync"

	"opencraft/block"
)

// Terrain is the spatial index of every instantiated chunk. Chunks are never
// removed. Only the owning goroutine instantiates chunks, but workers resolve
// neighbors through ChunkByKey concurrently.
type Terrain struct {
	mu      sync.RWMutex
	chunks  map[Key]*Chunk
	regions map[Key]struct{}

	device Device
}

// NewTerrain returns an empty index. dev may be nil, in which case edits
// rebuild meshes without uploading them.
func NewTerrain(dev Device) *Terrain {
	return &Terrain{
		chunks:  make(map[Key]*Chunk),
		regions: make(map[Key]struct{}),
		device:  dev,
	}
}

// Device returns the device edits upload through.
func (t *Terrain) Device() Device { return t.device }

func (t *Terrain) ChunkByKey(k Key) (*Chunk, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.chunks[k]
	return c, ok
}

// HasChunkAt reports whether the column (x, z) has a chunk.
func (t *Terrain) HasChunkAt(x, z int) bool {
	_, ok := t.ChunkByKey(KeyAt(x, z))
	return ok
}

// ChunkAt returns the chunk containing column (x, z).
func (t *Terrain) ChunkAt(x, z int) (*Chunk, error) {
	c, ok := t.ChunkByKey(KeyAt(x, z))
	if !ok {
		return nil, &OutOfBoundsError{X: x, Z: z}
	}
	return c, nil
}

// GlobalBlockAt reads the block at world coordinates. Heights outside the
// world read as Empty.
func (t *Terrain) GlobalBlockAt(x, y, z int) (block.Type, error) {
	c, ok := t.ChunkByKey(KeyAt(x, z))
	if !ok {
		return block.Empty, &OutOfBoundsError{X: x, Y: y, Z: z}
	}
	return c.Block(Local(x), y, Local(z)), nil
}

// SetGlobalBlockAt writes a block, rebuilds the owning chunk's mesh and
// uploads it. If the cell lies on a chunk edge the linked neighbor across
// that edge is rebuilt as well. Writes above or below the world are
// ignored.
func (t *Terrain) SetGlobalBlockAt(x, y, z int, b block.Type) error {
	c, ok := t.ChunkByKey(KeyAt(x, z))
	if !ok {
		return &OutOfBoundsError{X: x, Y: y, Z: z}
	}
	if y < 0 || y >= ChunkHeight {
		return nil
	}
	lx, lz := Local(x), Local(z)
	c.SetBlock(lx, y, lz, b)

	dirty := []*Chunk{c}
	for _, d := range edgesTouched(lx, lz) {
		k, ok := c.Neighbor(d)
		if !ok {
			continue
		}
		if n, ok := t.ChunkByKey(k); ok {
			dirty = append(dirty, n)
		}
	}
	for _, d := range dirty {
		if err := t.Rebuild(d); err != nil {
			return fmt.Errorf("set block at (%d, %d, %d): %w", x, y, z, err)
		}
	}
	return nil
}

func edgesTouched(lx, lz int) []Direction {
	var out []Direction
	switch lx {
	case 0:
		out = append(out, West)
	case ChunkWidth - 1:
		out = append(out, East)
	}
	switch lz {
	case 0:
		out = append(out, South)
	case ChunkDepth - 1:
		out = append(out, North)
	}
	return out
}

// Rebuild meshes c synchronously and uploads the result.
func (t *Terrain) Rebuild(c *Chunk) error {
	c.BuildMesh(t)
	return t.Upload(c)
}

// Upload sends the last built mesh of c to the terrain's device.
func (t *Terrain) Upload(c *Chunk) error {
	if t.device == nil {
		return nil
	}
	return c.UploadMesh(t.device)
}

// InstantiateChunkAt creates the empty chunk containing column (x, z),
// links it to the lateral neighbors that exist and registers it. An existing
// chunk is returned unchanged.
func (t *Terrain) InstantiateChunkAt(x, z int) *Chunk {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.instantiateLocked(x, z)
}

func (t *Terrain) instantiateLocked(x, z int) *Chunk {
	k := KeyAt(x, z)
	if c, ok := t.chunks[k]; ok {
		return c
	}
	c := NewChunk(x, z)
	t.chunks[k] = c
	for _, d := range Lateral {
		if n, ok := t.chunks[k.Step(d)]; ok {
			c.LinkNeighbor(n, d)
		}
	}
	t.regions[PackKey(int32(FloorToRegionGrid(x)), int32(FloorToRegionGrid(z)))] = struct{}{}
	return c
}

// InstantiateRegion creates the missing chunks of the 64x64 region
// containing column (x, z) and returns them in creation order.
func (t *Terrain) InstantiateRegion(x, z int) []*Chunk {
	rx, rz := FloorToRegionGrid(x), FloorToRegionGrid(z)

	t.mu.Lock()
	defer t.mu.Unlock()
	var created []*Chunk
	for cx := rx; cx < rx+RegionSize; cx += ChunkWidth {
		for cz := rz; cz < rz+RegionSize; cz += ChunkDepth {
			if _, ok := t.chunks[KeyAt(cx, cz)]; ok {
				continue
			}
			created = append(created, t.instantiateLocked(cx, cz))
		}
	}
	t.regions[PackKey(int32(rx), int32(rz))] = struct{}{}
	return created
}

// RegionGenerated reports whether the region containing (x, z) has been
// instantiated.
func (t *Terrain) RegionGenerated(x, z int) bool {
	k := PackKey(int32(FloorToRegionGrid(x)), int32(FloorToRegionGrid(z)))
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.regions[k]
	return ok
}

func (t *Terrain) ChunkCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.chunks)
}

// Chunks returns every chunk ordered by key.
func (t *Terrain) Chunks() []*Chunk {
	t.mu.RLock()
	out := make([]*Chunk, 0, len(t.chunks))
	for _, c := range t.chunks {
		out = append(out, c)
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// Draw issues the opaque pass and then the transparent pass for every
// uploaded chunk whose footprint intersects [minX, maxX) x [minZ, maxZ).
func (t *Terrain) Draw(minX, maxX, minZ, maxZ int, target Target) {
	var visible []*Chunk
	t.mu.RLock()
	for x := FloorToChunkGrid(minX); x < maxX; x += ChunkWidth {
		for z := FloorToChunkGrid(minZ); z < maxZ; z += ChunkDepth {
			if c, ok := t.chunks[KeyAt(x, z)]; ok {
				visible = append(visible, c)
			}
		}
	}
	t.mu.RUnlock()

	for _, transparent := range [2]bool{false, true} {
		for _, c := range visible {
			if c.IndexCount(transparent) == 0 {
				continue
			}
			target.DrawChunk(c, transparent)
		}
	}
}
