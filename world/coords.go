package world

import "opencraft/block"

const (
	ChunkWidth  = 16
	ChunkHeight = 256
	ChunkDepth  = 16

	BlockCount = ChunkWidth * ChunkHeight * ChunkDepth

	// RegionSize is the edge of the square area instantiated at once.
	RegionSize = 64
)

// Direction names the lateral neighbors of a chunk.
type Direction = block.Face

const (
	East  = block.XPos
	West  = block.XNeg
	North = block.ZPos
	South = block.ZNeg
)

// Lateral lists the four link directions.
var Lateral = [4]Direction{East, West, North, South}

// Key identifies a chunk by the x and z of its lower-left corner.
type Key int64

// PackKey stores x in the high 32 bits and z in the low 32 bits.
func PackKey(x, z int32) Key {
	return Key(int64(x)<<32 | int64(uint32(z)))
}

// Unpack is the inverse of PackKey.
func (k Key) Unpack() (x, z int32) {
	return int32(int64(k) >> 32), int32(uint32(k))
}

// Origin returns the world coordinates of the chunk corner.
func (k Key) Origin() (x, z int) {
	kx, kz := k.Unpack()
	return int(kx), int(kz)
}

// KeyAt returns the key of the chunk containing world column (x, z).
func KeyAt(x, z int) Key {
	return PackKey(int32(FloorToChunkGrid(x)), int32(FloorToChunkGrid(z)))
}

// Step returns the key of the chunk adjacent to k in direction d.
func (k Key) Step(d Direction) Key {
	x, z := k.Unpack()
	dx, _, dz := d.Offset()
	return PackKey(x+int32(dx*ChunkWidth), z+int32(dz*ChunkDepth))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// FloorToChunkGrid rounds v down to a multiple of 16.
func FloorToChunkGrid(v int) int {
	return floorDiv(v, ChunkWidth) * ChunkWidth
}

// FloorToRegionGrid rounds v down to a multiple of 64.
func FloorToRegionGrid(v int) int {
	return floorDiv(v, RegionSize) * RegionSize
}

// Local converts a world coordinate to an offset inside its chunk.
func Local(v int) int {
	return floorMod(v, ChunkWidth)
}

func index(x, y, z int) int {
	return x + ChunkWidth*y + ChunkWidth*ChunkHeight*z
}

func inChunk(x, y, z int) bool {
	return x >= 0 && x < ChunkWidth && y >= 0 && y < ChunkHeight && z >= 0 && z < ChunkDepth
}
