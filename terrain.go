package main

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"opencraft/world"
)

// glDevice uploads chunk meshes into vertex arrays. It must only be used
// from the thread that owns the GL context.
type glDevice struct{}

// glMesh holds one vertex array per pass: index 0 is opaque, 1 transparent.
type glMesh struct {
	vao   [2]uint32
	vbo   [2]uint32
	ebo   [2]uint32
	count [2]int32
}

const vec4Size = 4 * 4

func (glDevice) Upload(m *world.Mesh) (world.GPUMesh, error) {
	g := &glMesh{}
	for i, buf := range [2]*world.Buffer{&m.Opaque, &m.Transparent} {
		if len(buf.Indices) == 0 {
			continue
		}
		gl.GenVertexArrays(1, &g.vao[i])
		gl.BindVertexArray(g.vao[i])

		gl.GenBuffers(1, &g.vbo[i])
		gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(buf.Vertices)*vec4Size, gl.Ptr(&buf.Vertices[0][0]), gl.STATIC_DRAW)

		gl.GenBuffers(1, &g.ebo[i])
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo[i])
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(buf.Indices)*4, gl.Ptr(&buf.Indices[0]), gl.STATIC_DRAW)

		// position, normal, uv
		stride := int32(world.VertexStride * vec4Size)
		for attr := uint32(0); attr < world.VertexStride; attr++ {
			gl.EnableVertexAttribArray(attr)
			gl.VertexAttribPointerWithOffset(attr, 4, gl.FLOAT, false, stride, uintptr(attr*vec4Size))
		}
		g.count[i] = int32(len(buf.Indices))
	}
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		g.Release()
		return nil, fmt.Errorf("gl upload: error 0x%x", code)
	}
	return g, nil
}

func (g *glMesh) IndexCount(transparent bool) int {
	if transparent {
		return int(g.count[1])
	}
	return int(g.count[0])
}

func (g *glMesh) Release() {
	for i := range g.vao {
		if g.vao[i] == 0 {
			continue
		}
		gl.DeleteBuffers(1, &g.vbo[i])
		gl.DeleteBuffers(1, &g.ebo[i])
		gl.DeleteVertexArrays(1, &g.vao[i])
		g.vao[i], g.vbo[i], g.ebo[i], g.count[i] = 0, 0, 0, 0
	}
}

// glTarget draws uploaded chunks. Depth writes are turned off when the
// first transparent draw of a frame arrives.
type glTarget struct {
	transparentPass bool
}

func (t *glTarget) begin() {
	t.transparentPass = false
	gl.DepthMask(true)
}

func (t *glTarget) DrawChunk(c *world.Chunk, transparent bool) {
	m, ok := c.GPU().(*glMesh)
	if !ok {
		return
	}
	i := 0
	if transparent {
		i = 1
		if !t.transparentPass {
			t.transparentPass = true
			gl.DepthMask(false)
		}
	}
	gl.BindVertexArray(m.vao[i])
	gl.DrawElements(gl.TRIANGLES, m.count[i], gl.UNSIGNED_INT, nil)
}

func (t *glTarget) end() {
	gl.BindVertexArray(0)
	gl.DepthMask(true)
}
