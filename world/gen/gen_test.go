package gen

import (
	"testing"

	"opencraft/block"
	"opencraft/world"
)

func fillAt(g *Generator, x, z int) *world.Chunk {
	c := world.NewChunk(x, z)
	g.Fill(c)
	return c
}

func sameBlocks(t *testing.T, a, b *world.Chunk) {
	t.Helper()
	for x := 0; x < world.ChunkWidth; x++ {
		for z := 0; z < world.ChunkDepth; z++ {
			for y := 0; y < world.ChunkHeight; y++ {
				if ba, bb := a.Block(x, y, z), b.Block(x, y, z); ba != bb {
					t.Fatalf("%v and %v differ at (%d, %d, %d): %v vs %v", a, b, x, y, z, ba, bb)
				}
			}
		}
	}
}

func TestBiomeFor(t *testing.T) {
	tests := []struct {
		moisture, temperature float32
		want                  Biome
	}{
		{0.2, 0.2, Mountain},
		{0.2, 0.8, Desert},
		{0.8, 0.2, SnowyPlains},
		{0.8, 0.8, Grassland},
		{0.5, 0.5, Grassland},
		{0.49, 0.5, Desert},
	}
	for _, tt := range tests {
		if got := BiomeFor(tt.moisture, tt.temperature); got != tt.want {
			t.Errorf("BiomeFor(%v, %v) = %v, want %v", tt.moisture, tt.temperature, got, tt.want)
		}
	}
}

func TestFillDeterministic(t *testing.T) {
	a := New(1234)
	b := New(1234)
	sameBlocks(t, fillAt(a, -32, 48), fillAt(b, -32, 48))
}

func TestFillOrderIndependent(t *testing.T) {
	g := New(99)
	first := fillAt(g, 0, 0)
	fillAt(g, 16, 0)
	fillAt(g, -16, -16)
	again := fillAt(g, 0, 0)
	sameBlocks(t, first, again)
}

func TestSeedChangesTerrain(t *testing.T) {
	a := New(1).ColumnAt(100, 100)
	b := New(2).ColumnAt(100, 100)
	if a.Height == b.Height && a.Moisture == b.Moisture {
		t.Error("different seeds sampled the same column")
	}
}

func TestColumnLayers(t *testing.T) {
	g := New(7)
	for _, origin := range [][2]int{{0, 0}, {-160, 320}, {800, -800}} {
		c := fillAt(g, origin[0], origin[1])
		minX, minZ := c.Origin()
		for x := 0; x < world.ChunkWidth; x++ {
			for z := 0; z < world.ChunkDepth; z++ {
				col := g.ColumnAt(minX+x, minZ+z)
				if got := c.Block(x, 0, z); got != block.Bedrock {
					t.Fatalf("y=0 at (%d, %d) = %v, want bedrock", x, z, got)
				}
				for y := 1; y <= LavaTop; y++ {
					if got := c.Block(x, y, z); got != block.Lava {
						t.Fatalf("y=%d at (%d, %d) = %v, want lava", y, x, z, got)
					}
				}
				if col.Top < SeaLevel {
					want := block.Water
					if col.Biome == SnowyPlains {
						want = block.Ice
					}
					for y := col.Top + 1; y <= SeaLevel; y++ {
						if got := c.Block(x, y, z); got != want {
							t.Fatalf("y=%d at (%d, %d) = %v, want %v", y, x, z, got, want)
						}
					}
				}
				if got := c.Block(x, world.ChunkHeight-1, z); col.Top < world.ChunkHeight-12 && got != block.Empty {
					t.Fatalf("sky at (%d, %d) = %v, want empty", x, z, got)
				}
			}
		}
	}
}

func TestSurfaceLayers(t *testing.T) {
	tests := []struct {
		b      Biome
		y, top int
		want   block.Type
	}{
		{Grassland, 0, 150, block.Bedrock},
		{Grassland, 25, 150, block.Lava},
		{Grassland, 135, 150, block.Stone},
		{Grassland, 150, 150, block.Grass},
		{Grassland, 149, 150, block.Dirt},
		{SnowyPlains, 150, 150, block.SnowDirt},
		{SnowyPlains, 140, 150, block.Dirt},
		{Mountain, 210, 210, block.Snow},
		{Mountain, 190, 190, block.Stone},
		{Desert, 140, 140, block.Sand},
	}
	for _, tt := range tests {
		if got := surface(tt.b, tt.y, tt.top); got != tt.want {
			t.Errorf("surface(%v, %d, %d) = %v, want %v", tt.b, tt.y, tt.top, got, tt.want)
		}
	}
}

func TestMineralsOnlyInMountainStone(t *testing.T) {
	g := New(5)
	ores, gravel := 0, 0
	for x := 0; x < 20; x++ {
		hill := Column{X: x, Z: 9, Biome: Mountain}
		plain := Column{X: x, Z: 9, Biome: Grassland}
		for y := 26; y < 136; y++ {
			if got := g.mineral(plain, y, block.Stone); got != block.Stone {
				t.Fatalf("grassland stone at y=%d became %v", y, got)
			}
			switch g.mineral(hill, y, block.Stone) {
			case block.Coal, block.Copper, block.Gold, block.Lapis:
				ores++
				if y <= 27 {
					t.Errorf("ore below its band at y=%d", y)
				}
			case block.Gravel:
				gravel++
			}
		}
		if got := g.mineral(hill, 150, block.Snow); got != block.Snow {
			t.Errorf("mountain snow became %v", got)
		}
	}
	if ores == 0 || gravel == 0 {
		t.Errorf("ores = %d, gravel = %d over 2200 mountain cells", ores, gravel)
	}
}

func TestDecorationsClipToChunk(t *testing.T) {
	var b world.Blocks
	d := decorator{blocks: &b, minX: 16, minZ: 16, seed: 3}

	// A tree on the corner column spills into three other chunks.
	d.oakTree(16, 150, 16)
	if got := b.At(0, 150, 0); got != block.Wood {
		t.Fatalf("trunk = %v, want wood", got)
	}
	if got := b.At(1, 153, 0); got != block.Leaf {
		t.Errorf("leaf inside the chunk = %v, want leaf", got)
	}

	d.ringSnowTree(31, 150, 31)
	d.deadSnowTree(16, 150, 31)
	d.layeredSnowTree(31, 150, 16)
	if got := b.At(15, 150, 15); got != block.Wood {
		t.Errorf("ring tree trunk = %v", got)
	}
}

func TestFoliageKeepsTrunks(t *testing.T) {
	var b world.Blocks
	d := decorator{blocks: &b}
	d.trunk(5, 100, 5, 8)
	d.layeredSnowTree(5, 100, 5)
	for y := 100; y < 108; y++ {
		if got := b.At(5, y, 5); got != block.Wood {
			t.Fatalf("trunk at y=%d = %v", y, got)
		}
	}
	if got := b.At(5, 108, 5); got != block.SnowLeaf {
		t.Errorf("peak = %v, want snow leaf", got)
	}
}

func TestCactusHeight(t *testing.T) {
	heights := map[int]int{}
	for i := 0; i < 200; i++ {
		var b world.Blocks
		d := decorator{blocks: &b, seed: 11}
		d.cactus(i%16, 140, i/16)
		h := 0
		for b.At(i%16, 141+h, i/16) == block.Cactus {
			h++
		}
		heights[h]++
	}
	for h := range heights {
		if h < 1 || h > 3 {
			t.Errorf("cactus of height %d", h)
		}
	}
	if len(heights) < 2 {
		t.Errorf("cactus heights not varied: %v", heights)
	}
}
