package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"opencraft/block"
)

// VertexStride is the number of Vec4 attributes per vertex: position,
// normal and uv.
const VertexStride = 3

// Buffer is one interleaved vertex list with its triangle indices.
type Buffer struct {
	Vertices []mgl32.Vec4
	Indices  []uint32
}

// VertexCount returns the number of vertices, not Vec4 entries.
func (b *Buffer) VertexCount() int { return len(b.Vertices) / VertexStride }

// QuadCount returns the number of emitted faces.
func (b *Buffer) QuadCount() int { return len(b.Indices) / 6 }

// Mesh is the render payload of one chunk.
type Mesh struct {
	Opaque      Buffer
	Transparent Buffer
}

// Empty reports whether the mesh has nothing to draw.
func (m *Mesh) Empty() bool {
	return len(m.Opaque.Indices) == 0 && len(m.Transparent.Indices) == 0
}

type faceVertex struct {
	pos mgl32.Vec4
	uv  mgl32.Vec4
}

const uvStep = block.TileSize

// faceTable holds the four corners of each face in winding order, with the
// uv offset inside the atlas tile.
var faceTable = [6][4]faceVertex{
	block.XPos: {
		{mgl32.Vec4{1, 0, 1, 1}, mgl32.Vec4{0, 0, 0, 0}},
		{mgl32.Vec4{1, 0, 0, 1}, mgl32.Vec4{uvStep, 0, 0, 0}},
		{mgl32.Vec4{1, 1, 0, 1}, mgl32.Vec4{uvStep, uvStep, 0, 0}},
		{mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec4{0, uvStep, 0, 0}},
	},
	block.XNeg: {
		{mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec4{0, 0, 0, 0}},
		{mgl32.Vec4{0, 0, 1, 1}, mgl32.Vec4{uvStep, 0, 0, 0}},
		{mgl32.Vec4{0, 1, 1, 1}, mgl32.Vec4{uvStep, uvStep, 0, 0}},
		{mgl32.Vec4{0, 1, 0, 1}, mgl32.Vec4{0, uvStep, 0, 0}},
	},
	block.YPos: {
		{mgl32.Vec4{0, 1, 1, 1}, mgl32.Vec4{0, 0, 0, 0}},
		{mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec4{uvStep, 0, 0, 0}},
		{mgl32.Vec4{1, 1, 0, 1}, mgl32.Vec4{uvStep, uvStep, 0, 0}},
		{mgl32.Vec4{0, 1, 0, 1}, mgl32.Vec4{0, uvStep, 0, 0}},
	},
	block.YNeg: {
		{mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec4{0, 0, 0, 0}},
		{mgl32.Vec4{1, 0, 0, 1}, mgl32.Vec4{uvStep, 0, 0, 0}},
		{mgl32.Vec4{1, 0, 1, 1}, mgl32.Vec4{uvStep, uvStep, 0, 0}},
		{mgl32.Vec4{0, 0, 1, 1}, mgl32.Vec4{0, uvStep, 0, 0}},
	},
	block.ZPos: {
		{mgl32.Vec4{0, 0, 1, 1}, mgl32.Vec4{0, 0, 0, 0}},
		{mgl32.Vec4{1, 0, 1, 1}, mgl32.Vec4{uvStep, 0, 0, 0}},
		{mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec4{uvStep, uvStep, 0, 0}},
		{mgl32.Vec4{0, 1, 1, 1}, mgl32.Vec4{0, uvStep, 0, 0}},
	},
	block.ZNeg: {
		{mgl32.Vec4{1, 0, 0, 1}, mgl32.Vec4{0, 0, 0, 0}},
		{mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec4{uvStep, 0, 0, 0}},
		{mgl32.Vec4{0, 1, 0, 1}, mgl32.Vec4{uvStep, uvStep, 0, 0}},
		{mgl32.Vec4{1, 1, 0, 1}, mgl32.Vec4{0, uvStep, 0, 0}},
	},
}

type edgeColumns [4]*[ChunkHeight * ChunkWidth]block.Type

type meshBuilder struct {
	blocks *Blocks
	edges  edgeColumns
}

func (b *meshBuilder) edge(d Direction, y, i int) block.Type {
	slot, _ := linkSlot(d)
	col := b.edges[slot]
	if col == nil {
		return block.Empty
	}
	return col[y*ChunkWidth+i]
}

// adjacent returns the block across face f of local cell (x, y, z),
// reading neighbor border columns across the chunk edge.
func (b *meshBuilder) adjacent(x, y, z int, f block.Face) block.Type {
	dx, dy, dz := f.Offset()
	nx, ny, nz := x+dx, y+dy, z+dz
	switch {
	case ny < 0 || ny >= ChunkHeight:
		return block.Empty
	case nx < 0:
		return b.edge(West, ny, nz)
	case nx >= ChunkWidth:
		return b.edge(East, ny, nz)
	case nz < 0:
		return b.edge(South, ny, nx)
	case nz >= ChunkDepth:
		return b.edge(North, ny, nx)
	}
	return b.blocks[index(nx, ny, nz)]
}

// visible reports whether a face of cur is exposed by its neighbor n.
func visible(cur, n block.Type) bool {
	switch {
	case n == block.Empty:
		return true
	case n.Transparent() && n != cur:
		return true
	case n.AlwaysVisible():
		return true
	}
	return false
}

func buildMesh(blocks *Blocks, minX, minZ int, edges edgeColumns) *Mesh {
	b := meshBuilder{blocks: blocks, edges: edges}
	m := &Mesh{}
	for z := 0; z < ChunkDepth; z++ {
		for y := 0; y < ChunkHeight; y++ {
			for x := 0; x < ChunkWidth; x++ {
				cur := blocks[index(x, y, z)]
				if cur == block.Empty {
					continue
				}
				buf := &m.Opaque
				if cur.Transparent() {
					buf = &m.Transparent
				}
				origin := mgl32.Vec4{float32(minX + x), float32(y), float32(minZ + z), 0}
				for _, f := range block.Faces {
					if !visible(cur, b.adjacent(x, y, z, f)) {
						continue
					}
					appendFace(buf, cur, f, origin)
				}
			}
		}
	}
	return m
}

func appendFace(buf *Buffer, t block.Type, f block.Face, origin mgl32.Vec4) {
	dx, dy, dz := f.Offset()
	normal := mgl32.Vec4{float32(dx), float32(dy), float32(dz), 1}
	uv := t.UV(f)
	if t.Animated() {
		uv[2] = 1
	}

	base := uint32(len(buf.Vertices) / VertexStride)
	for _, v := range faceTable[f] {
		buf.Vertices = append(buf.Vertices, v.pos.Add(origin), normal, uv.Add(v.uv))
	}
	buf.Indices = append(buf.Indices, base, base+1, base+2, base, base+2, base+3)
}
