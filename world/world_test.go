package world

import (
	"errors"
	"math"
	"sync"
	"testing"

	"opencraft/block"
)

type fakeGPU struct {
	opaque, transparent int
	released            bool
}

func (g *fakeGPU) IndexCount(transparent bool) int {
	if transparent {
		return g.transparent
	}
	return g.opaque
}

func (g *fakeGPU) Release() { g.released = true }

type fakeDevice struct {
	uploads []*fakeGPU
	err     error
}

func (d *fakeDevice) Upload(m *Mesh) (GPUMesh, error) {
	if d.err != nil {
		return nil, d.err
	}
	g := &fakeGPU{opaque: len(m.Opaque.Indices), transparent: len(m.Transparent.Indices)}
	d.uploads = append(d.uploads, g)
	return g, nil
}

type drawCall struct {
	key         Key
	transparent bool
}

type recorder struct{ calls []drawCall }

func (r *recorder) DrawChunk(c *Chunk, transparent bool) {
	r.calls = append(r.calls, drawCall{c.Key(), transparent})
}

func TestKeyRoundTrip(t *testing.T) {
	tests := [][2]int32{
		{0, 0},
		{16, -16},
		{-1, -1},
		{math.MaxInt32, math.MinInt32},
		{math.MinInt32, math.MaxInt32},
		{-4096, 123456},
	}
	for _, tt := range tests {
		x, z := PackKey(tt[0], tt[1]).Unpack()
		if x != tt[0] || z != tt[1] {
			t.Errorf("Unpack(PackKey(%d, %d)) = (%d, %d)", tt[0], tt[1], x, z)
		}
	}
	if PackKey(0, -16) == PackKey(-16, 0) {
		t.Error("keys collide across axes")
	}
}

func TestFloorToChunkGrid(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{15, 0},
		{16, 16},
		{-1, -16},
		{-16, -16},
		{-17, -32},
		{33, 32},
	}
	for _, tt := range tests {
		if got := FloorToChunkGrid(tt.in); got != tt.want {
			t.Errorf("FloorToChunkGrid(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := FloorToRegionGrid(-1); got != -64 {
		t.Errorf("FloorToRegionGrid(-1) = %d, want -64", got)
	}
	if got := Local(-1); got != 15 {
		t.Errorf("Local(-1) = %d, want 15", got)
	}
}

func TestLocalAccessBounds(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlock(-1, 10, 0, block.Stone)
	c.SetBlock(0, 256, 0, block.Stone)
	if got := c.Block(16, 0, 0); got != block.Empty {
		t.Errorf("Block outside footprint = %v, want empty", got)
	}
	c.SetBlock(3, 200, 7, block.Gold)
	if got := c.Block(3, 200, 7); got != block.Gold {
		t.Errorf("Block(3,200,7) = %v, want gold", got)
	}
}

func TestLinkNeighbor(t *testing.T) {
	a := NewChunk(0, 0)
	b := NewChunk(16, 0)
	a.LinkNeighbor(b, East)

	if k, ok := a.Neighbor(East); !ok || k != b.Key() {
		t.Fatalf("a east = %v %v, want %v", k, ok, b.Key())
	}
	if k, ok := b.Neighbor(West); !ok || k != a.Key() {
		t.Fatalf("b west = %v %v, want %v", k, ok, a.Key())
	}

	// An existing link is never replaced.
	c := NewChunk(16, 0)
	a.LinkNeighbor(c, East)
	if k, _ := a.Neighbor(East); k != b.Key() {
		t.Error("existing east link was replaced")
	}
	if _, ok := c.Neighbor(West); ok {
		t.Error("rejected link was half applied")
	}

	a.LinkNeighbor(nil, North)
	if _, ok := a.Neighbor(North); ok {
		t.Error("nil neighbor was linked")
	}
	a.LinkNeighbor(b, block.YPos)
	if _, ok := a.Neighbor(block.YPos); ok {
		t.Error("vertical link was recorded")
	}
}

func TestSingleBlockMesh(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlock(5, 100, 5, block.Stone)
	m := c.BuildMesh(nil)

	if got := m.Opaque.QuadCount(); got != 6 {
		t.Errorf("quads = %d, want 6", got)
	}
	if got := m.Opaque.VertexCount(); got != 24 {
		t.Errorf("vertices = %d, want 24", got)
	}
	if got := len(m.Opaque.Indices); got != 36 {
		t.Errorf("indices = %d, want 36", got)
	}
	if len(m.Transparent.Indices) != 0 {
		t.Error("stone produced transparent geometry")
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	for i, v := range want {
		if m.Opaque.Indices[i] != v {
			t.Fatalf("first quad indices = %v, want %v", m.Opaque.Indices[:6], want)
		}
	}
	// XPos face, first corner (1,0,1) offset by the block position.
	if got := m.Opaque.Vertices[0]; got.X() != 6 || got.Y() != 100 || got.Z() != 6 || got.W() != 1 {
		t.Errorf("first vertex = %v", got)
	}
	if got := m.Opaque.Vertices[1]; got.X() != 1 || got.W() != 1 {
		t.Errorf("first normal = %v", got)
	}
}

func TestBuriedBlockHasNoFaces(t *testing.T) {
	c := NewChunk(0, 0)
	for x := 4; x <= 6; x++ {
		for y := 50; y <= 52; y++ {
			for z := 4; z <= 6; z++ {
				c.SetBlock(x, y, z, block.Stone)
			}
		}
	}
	m := c.BuildMesh(nil)
	// A 3x3x3 cube only shows its 54 outer faces.
	if got := m.Opaque.QuadCount(); got != 54 {
		t.Errorf("quads = %d, want 54", got)
	}
}

func TestTransparencyRules(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlock(1, 10, 1, block.Stone)
	c.SetBlock(2, 10, 1, block.Water)
	c.SetBlock(3, 10, 1, block.Water)
	m := c.BuildMesh(nil)

	// Stone shows all 6 faces since water is transparent.
	if got := m.Opaque.QuadCount(); got != 6 {
		t.Errorf("opaque quads = %d, want 6", got)
	}
	// Two water cells: 12 faces minus the two facing each other minus the
	// one facing stone.
	if got := m.Transparent.QuadCount(); got != 9 {
		t.Errorf("transparent quads = %d, want 9", got)
	}
	for i := 2; i < len(m.Transparent.Vertices); i += VertexStride {
		if m.Transparent.Vertices[i].Z() != 1 {
			t.Fatalf("water uv %v not flagged animated", m.Transparent.Vertices[i])
		}
	}
}

func TestCactusAlwaysVisible(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlock(1, 10, 1, block.Stone)
	c.SetBlock(1, 11, 1, block.Cactus)
	m := c.BuildMesh(nil)
	// Stone keeps its top face under the cactus, the cactus still hides
	// its bottom against the stone.
	if got := m.Opaque.QuadCount(); got != 11 {
		t.Errorf("quads = %d, want 11", got)
	}
}

func TestWorldEdgesAreEmpty(t *testing.T) {
	c := NewChunk(0, 0)
	c.SetBlock(0, 0, 0, block.Bedrock)
	c.SetBlock(0, ChunkHeight-1, 0, block.Stone)
	m := c.BuildMesh(nil)
	if got := m.Opaque.QuadCount(); got != 12 {
		t.Errorf("quads = %d, want 12", got)
	}
}

func TestBoundaryCulling(t *testing.T) {
	terr := NewTerrain(nil)
	a := terr.InstantiateChunkAt(0, 0)
	b := terr.InstantiateChunkAt(16, 0)
	a.SetBlock(15, 64, 3, block.Stone)
	b.SetBlock(0, 64, 3, block.Stone)

	if got := a.BuildMesh(terr).Opaque.QuadCount(); got != 5 {
		t.Errorf("a quads = %d, want 5", got)
	}
	if got := b.BuildMesh(terr).Opaque.QuadCount(); got != 5 {
		t.Errorf("b quads = %d, want 5", got)
	}

	// Without a resolver the neighbor reads as empty.
	if got := a.BuildMesh(nil).Opaque.QuadCount(); got != 6 {
		t.Errorf("unresolved quads = %d, want 6", got)
	}
}

func TestBoundaryCullingNegativeZ(t *testing.T) {
	terr := NewTerrain(nil)
	a := terr.InstantiateChunkAt(0, -16)
	b := terr.InstantiateChunkAt(0, 0)
	a.SetBlock(7, 64, 15, block.Dirt)
	b.SetBlock(7, 64, 0, block.Dirt)

	if got := b.BuildMesh(terr).Opaque.QuadCount(); got != 5 {
		t.Errorf("b quads = %d, want 5", got)
	}
	if got := a.BuildMesh(terr).Opaque.QuadCount(); got != 5 {
		t.Errorf("a quads = %d, want 5", got)
	}
}

func TestGlobalAccess(t *testing.T) {
	dev := &fakeDevice{}
	terr := NewTerrain(dev)

	if _, err := terr.GlobalBlockAt(5, 5, 5); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("GlobalBlockAt on empty world: err = %v", err)
	}
	err := terr.SetGlobalBlockAt(-5, 5, -5, block.Stone)
	var oob *OutOfBoundsError
	if !errors.As(err, &oob) || oob.X != -5 || oob.Z != -5 {
		t.Fatalf("SetGlobalBlockAt on empty world: err = %v", err)
	}

	terr.InstantiateChunkAt(-5, -5)
	if !terr.HasChunkAt(-16, -16) || terr.HasChunkAt(0, 0) {
		t.Fatal("chunk registered at the wrong key")
	}
	if err := terr.SetGlobalBlockAt(-5, 70, -5, block.Stone); err != nil {
		t.Fatal(err)
	}
	got, err := terr.GlobalBlockAt(-5, 70, -5)
	if err != nil || got != block.Stone {
		t.Fatalf("GlobalBlockAt = %v, %v", got, err)
	}
	if got, _ := terr.GlobalBlockAt(-5, 300, -5); got != block.Empty {
		t.Errorf("above the world = %v, want empty", got)
	}
	if len(dev.uploads) != 1 || dev.uploads[0].opaque != 36 {
		t.Fatalf("uploads = %+v, want one with 36 opaque indices", dev.uploads)
	}

	if err := terr.SetGlobalBlockAt(-5, 70, -5, block.Empty); err != nil {
		t.Fatal(err)
	}
	if !dev.uploads[0].released {
		t.Error("previous GPU mesh not released")
	}
	if n := len(dev.uploads); n != 2 || dev.uploads[1].opaque != 0 {
		t.Errorf("mesh after removal not empty: %+v", dev.uploads)
	}
}

func TestEditOnBorderRebuildsNeighbor(t *testing.T) {
	dev := &fakeDevice{}
	terr := NewTerrain(dev)
	a := terr.InstantiateChunkAt(0, 0)
	b := terr.InstantiateChunkAt(16, 0)
	b.SetBlock(0, 64, 3, block.Stone)
	terr.Rebuild(b)
	if b.IndexCount(false) != 36 {
		t.Fatalf("b indices = %d, want 36", b.IndexCount(false))
	}

	if err := terr.SetGlobalBlockAt(15, 64, 3, block.Stone); err != nil {
		t.Fatal(err)
	}
	if a.IndexCount(false) != 30 || b.IndexCount(false) != 30 {
		t.Errorf("indices a=%d b=%d, want 30 each", a.IndexCount(false), b.IndexCount(false))
	}
}

func TestUploadErrors(t *testing.T) {
	c := NewChunk(0, 0)
	if err := c.UploadMesh(&fakeDevice{}); err == nil {
		t.Error("upload without a mesh succeeded")
	}
	c.BuildMesh(nil)
	boom := errors.New("boom")
	if err := c.UploadMesh(&fakeDevice{err: boom}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestInstantiateRegion(t *testing.T) {
	terr := NewTerrain(nil)
	if terr.RegionGenerated(10, 10) {
		t.Fatal("region generated before instantiation")
	}
	created := terr.InstantiateRegion(-10, 70)
	if len(created) != 16 {
		t.Fatalf("created %d chunks, want 16", len(created))
	}
	if !terr.RegionGenerated(-64, 64) || !terr.RegionGenerated(-1, 127) {
		t.Error("region not marked")
	}
	if terr.RegionGenerated(0, 64) {
		t.Error("adjacent region marked")
	}
	if again := terr.InstantiateRegion(-64, 64); len(again) != 0 {
		t.Errorf("second instantiation created %d chunks", len(again))
	}

	inner, err := terr.ChunkAt(-32, 96)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range Lateral {
		k, ok := inner.Neighbor(d)
		if !ok || k != inner.Key().Step(d) {
			t.Errorf("inner chunk %v link = %v %v", d, k, ok)
		}
	}
	corner, _ := terr.ChunkAt(-64, 64)
	if _, ok := corner.Neighbor(West); ok {
		t.Error("corner chunk linked outside the region")
	}
	if terr.ChunkCount() != 16 || len(terr.Chunks()) != 16 {
		t.Errorf("ChunkCount = %d", terr.ChunkCount())
	}
}

func TestDrawOrdering(t *testing.T) {
	dev := &fakeDevice{}
	terr := NewTerrain(dev)
	for _, x := range []int{0, 16, 32} {
		c := terr.InstantiateChunkAt(x, 0)
		c.SetBlock(1, 10, 1, block.Stone)
		c.SetBlock(3, 10, 1, block.Water)
		if err := terr.Rebuild(c); err != nil {
			t.Fatal(err)
		}
	}
	// Registered but never meshed: skipped.
	terr.InstantiateChunkAt(48, 0)
	// Opaque only.
	solid := terr.InstantiateChunkAt(0, 16)
	solid.SetBlock(0, 0, 0, block.Stone)
	terr.Rebuild(solid)

	rec := &recorder{}
	terr.Draw(0, 64, 0, 32, rec)

	if len(rec.calls) != 7 {
		t.Fatalf("draw calls = %d, want 7: %+v", len(rec.calls), rec.calls)
	}
	seenTransparent := false
	for _, call := range rec.calls {
		if call.transparent {
			seenTransparent = true
		} else if seenTransparent {
			t.Fatal("opaque draw after a transparent draw")
		}
		if call.key == solid.Key() && call.transparent {
			t.Error("chunk without transparent data drawn in the transparent pass")
		}
	}

	rec = &recorder{}
	terr.Draw(100, 200, 100, 200, rec)
	if len(rec.calls) != 0 {
		t.Errorf("draw outside the world issued %d calls", len(rec.calls))
	}
}

func TestConcurrentMeshAndEdit(t *testing.T) {
	terr := NewTerrain(nil)
	terr.InstantiateRegion(0, 0)
	chunks := terr.Chunks()

	var wg sync.WaitGroup
	for _, c := range chunks {
		wg.Add(1)
		go func(c *Chunk) {
			defer wg.Done()
			for i := 0; i < 3; i++ {
				c.BuildMesh(terr)
			}
		}(c)
	}
	for i := 0; i < 200; i++ {
		x, z := (i*7)%64, (i*13)%64
		terr.SetGlobalBlockAt(x, 100, z, block.Stone)
	}
	wg.Wait()

	for _, c := range chunks {
		if !c.MeshBuilt() {
			t.Errorf("%v has no mesh", c)
		}
	}
}
