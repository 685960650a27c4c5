// Package gen fills chunks with terrain: climate driven biomes, blended
// height fields, caves, ores, water and surface decorations.
package gen

import (
	"math"

	"opencraft/noise"
	"opencraft/world"
)

const (
	LavaTop   = 25
	StoneTop  = 135
	SeaLevel  = 138
	SnowLine  = 200
	CaveFloor = 130
	CaveRoof  = 150

	// CaveThreshold is the cave noise value above which mountain rock
	// inside the cave band is carved out.
	CaveThreshold = 0.22
)

// Column is the climate and surface of one world column.
type Column struct {
	X, Z        int
	Moisture    float32
	Temperature float32
	Height      float32
	Top         int
	Biome       Biome
}

// Generator is a seeded, stateless terrain policy. Fill can run on any number
// of goroutines at once and always produces the same blocks for a chunk.
type Generator struct {
	seed   int64
	ox, oz float32
	decor  *noise.Simplex
}

// New returns a generator for seed. The seed shifts the sample plane of the
// climate and height fields and keys every random roll in the fill.
func New(seed int64) *Generator {
	h := noise.Mix64(uint64(seed))
	return &Generator{
		seed:  seed,
		ox:    float32(int64(h&0xffff) - 0x8000),
		oz:    float32(int64((h>>16)&0xffff) - 0x8000),
		decor: noise.NewSimplex(seed),
	}
}

func (g *Generator) Seed() int64 { return g.seed }

func (g *Generator) sample(x, z int) (float32, float32) {
	return float32(x) + g.ox, float32(z) + g.oz
}

// ColumnAt evaluates the climate and surface height of column (x, z).
func (g *Generator) ColumnAt(x, z int) Column {
	fx, fz := g.sample(x, z)
	m := g.moisture(fx, fz)
	t := g.temperature(fx, fz)
	h := g.height(fx, fz, m, t)

	top := int(math.Floor(float64(h)))
	if top < 1 {
		top = 1
	}
	if top > world.ChunkHeight-1 {
		top = world.ChunkHeight - 1
	}
	return Column{
		X:           x,
		Z:           z,
		Moisture:    m,
		Temperature: t,
		Height:      h,
		Top:         top,
		Biome:       BiomeFor(m, t),
	}
}

// Fill generates the blocks of c. Decorations that would cross the chunk
// edge are clipped, so only c is written.
func (g *Generator) Fill(c *world.Chunk) {
	minX, minZ := c.Origin()
	c.Populate(func(b *world.Blocks) {
		var cols [world.ChunkWidth * world.ChunkDepth]Column
		for dx := 0; dx < world.ChunkWidth; dx++ {
			for dz := 0; dz < world.ChunkDepth; dz++ {
				col := g.ColumnAt(minX+dx, minZ+dz)
				cols[dx*world.ChunkDepth+dz] = col
				g.fillColumn(b, dx, dz, col)
			}
		}

		d := decorator{blocks: b, minX: minX, minZ: minZ, seed: g.seed}
		for _, col := range cols {
			g.decorate(&d, col)
		}
	})
}
