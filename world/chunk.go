package world

import (
	"fmt"
	"sync"
	"sync/atomic"

	"opencraft/block"
)

// Blocks is the dense block array of one chunk, indexed x + 16*y + 16*256*z.
type Blocks [BlockCount]block.Type

// At returns the block at local coordinates, or Empty outside the chunk.
func (b *Blocks) At(x, y, z int) block.Type {
	if !inChunk(x, y, z) {
		return block.Empty
	}
	return b[index(x, y, z)]
}

// Set writes a block at local coordinates. Writes outside the chunk are
// dropped.
func (b *Blocks) Set(x, y, z int, t block.Type) {
	if !inChunk(x, y, z) {
		return
	}
	b[index(x, y, z)] = t
}

// Chunk is a 16x256x16 column of blocks plus its mesh state.
//
// Blocks and links are guarded by mu. The GPU handle is only touched by the
// goroutine that owns the graphics device.
type Chunk struct {
	key        Key
	minX, minZ int

	mu     sync.RWMutex
	blocks Blocks
	links  [4]Key
	linked [4]bool

	populated atomic.Bool

	meshMu sync.Mutex
	mesh   *Mesh

	gpu GPUMesh
}

// NewChunk returns an empty, unlinked chunk whose corner is the 16-aligned
// column containing (x, z).
func NewChunk(x, z int) *Chunk {
	minX, minZ := FloorToChunkGrid(x), FloorToChunkGrid(z)
	return &Chunk{
		key:  PackKey(int32(minX), int32(minZ)),
		minX: minX,
		minZ: minZ,
	}
}

func (c *Chunk) Key() Key { return c.key }

// Origin returns the world x and z of the chunk corner.
func (c *Chunk) Origin() (x, z int) { return c.minX, c.minZ }

func (c *Chunk) String() string {
	return fmt.Sprintf("chunk(%d, %d)", c.minX, c.minZ)
}

// Block reads a block at local coordinates.
func (c *Chunk) Block(x, y, z int) block.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks.At(x, y, z)
}

// SetBlock writes a block at local coordinates.
func (c *Chunk) SetBlock(x, y, z int, t block.Type) {
	c.mu.Lock()
	c.blocks.Set(x, y, z, t)
	c.mu.Unlock()
}

// Populate runs fn with exclusive access to the block array and marks the
// chunk as generated.
func (c *Chunk) Populate(fn func(b *Blocks)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.blocks)
	c.populated.Store(true)
}

// Populated reports whether terrain generation has filled the chunk.
func (c *Chunk) Populated() bool { return c.populated.Load() }

func linkSlot(d Direction) (int, bool) {
	switch d {
	case East:
		return 0, true
	case West:
		return 1, true
	case North:
		return 2, true
	case South:
		return 3, true
	}
	return 0, false
}

// LinkNeighbor records other as the neighbor of c in direction d and c as
// the neighbor of other in the opposite direction. Nothing changes if other
// is nil, d is vertical, or either side already has a link there.
func (c *Chunk) LinkNeighbor(other *Chunk, d Direction) {
	if other == nil || other == c {
		return
	}
	slot, ok := linkSlot(d)
	if !ok {
		return
	}
	back, _ := linkSlot(d.Opposite())

	first, second := c, other
	if other.key < c.key {
		first, second = other, c
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if c.linked[slot] || other.linked[back] {
		return
	}
	c.links[slot], c.linked[slot] = other.key, true
	other.links[back], other.linked[back] = c.key, true
}

// Neighbor returns the key linked in direction d.
func (c *Chunk) Neighbor(d Direction) (Key, bool) {
	slot, ok := linkSlot(d)
	if !ok {
		return 0, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.links[slot], c.linked[slot]
}

// border copies the face of c seen by a chunk whose neighbor c is in
// direction d, indexed y*16 + (z or x).
func (c *Chunk) border(d Direction) *[ChunkHeight * ChunkWidth]block.Type {
	var out [ChunkHeight * ChunkWidth]block.Type
	c.mu.RLock()
	defer c.mu.RUnlock()
	for y := 0; y < ChunkHeight; y++ {
		for i := 0; i < ChunkWidth; i++ {
			var t block.Type
			switch d {
			case East:
				t = c.blocks.At(0, y, i)
			case West:
				t = c.blocks.At(ChunkWidth-1, y, i)
			case North:
				t = c.blocks.At(i, y, 0)
			case South:
				t = c.blocks.At(i, y, ChunkDepth-1)
			}
			out[y*ChunkWidth+i] = t
		}
	}
	return &out
}

// BuildMesh rebuilds the face-culled mesh of the chunk and stores it.
// Neighbor border columns are copied first, each under its own read lock,
// so no two chunk locks are ever held together.
func (c *Chunk) BuildMesh(r Resolver) *Mesh {
	var edges edgeColumns
	if r != nil {
		for _, d := range Lateral {
			k, ok := c.Neighbor(d)
			if !ok {
				continue
			}
			n, ok := r.ChunkByKey(k)
			if !ok {
				continue
			}
			slot, _ := linkSlot(d)
			edges[slot] = n.border(d)
		}
	}

	m := c.meshLocked(edges)

	c.meshMu.Lock()
	c.mesh = m
	c.meshMu.Unlock()
	return m
}

func (c *Chunk) meshLocked(edges edgeColumns) *Mesh {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return buildMesh(&c.blocks, c.minX, c.minZ, edges)
}

// Mesh returns the last built mesh, or nil.
func (c *Chunk) Mesh() *Mesh {
	c.meshMu.Lock()
	defer c.meshMu.Unlock()
	return c.mesh
}

// MeshBuilt reports whether BuildMesh has completed at least once.
func (c *Chunk) MeshBuilt() bool {
	return c.Mesh() != nil
}

// UploadMesh hands the last built mesh to dev and releases the previous
// GPU mesh. It must run on the device's goroutine.
func (c *Chunk) UploadMesh(dev Device) error {
	m := c.Mesh()
	if m == nil {
		return fmt.Errorf("upload %v: mesh not built", c)
	}
	g, err := dev.Upload(m)
	if err != nil {
		return fmt.Errorf("upload %v: %w", c, err)
	}
	if c.gpu != nil {
		c.gpu.Release()
	}
	c.gpu = g
	return nil
}

// GPU returns the uploaded mesh handle, or nil.
func (c *Chunk) GPU() GPUMesh { return c.gpu }

// IndexCount returns the number of uploaded indices in one pass.
func (c *Chunk) IndexCount(transparent bool) int {
	if c.gpu == nil {
		return 0
	}
	return c.gpu.IndexCount(transparent)
}
