package world

// Device turns mesh payloads into GPU resources. It is only called from the
// goroutine that owns the graphics context.
type Device interface {
	Upload(m *Mesh) (GPUMesh, error)
}

// GPUMesh is an uploaded mesh.
type GPUMesh interface {
	IndexCount(transparent bool) int
	Release()
}

// Target issues draw calls for uploaded chunks.
type Target interface {
	DrawChunk(c *Chunk, transparent bool)
}

// Resolver looks chunks up by key.
type Resolver interface {
	ChunkByKey(k Key) (*Chunk, bool)
}
