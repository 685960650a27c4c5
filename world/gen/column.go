package gen

import (
	"opencraft/block"
	"opencraft/noise"
	"opencraft/world"
)

// salts keep the independent rolls drawn from one position hash apart.
const (
	saltOre uint64 = iota + 1
	saltOreKind
	saltTree
	saltCactus
	saltBranch
	saltSnowCap
)

// surface returns the layered material of column biome b at height y.
func surface(b Biome, y, top int) block.Type {
	switch {
	case y == 0:
		return block.Bedrock
	case y <= LavaTop:
		return block.Lava
	case y <= StoneTop:
		return block.Stone
	}
	switch b {
	case SnowyPlains:
		if y == top {
			return block.SnowDirt
		}
		return block.Dirt
	case Mountain:
		if y == top && top >= SnowLine {
			return block.Snow
		}
		return block.Stone
	case Desert:
		return block.Sand
	}
	if y == top {
		return block.Grass
	}
	return block.Dirt
}

func (g *Generator) caveNoise(x, y, z float32) float32 {
	coarse := noise.Perlin3D(x/102, y/108, z/102)
	fine := noise.Perlin3D(x/34, y/33, z/34)
	return 0.1*coarse + 0.9*fine
}

// carved reports whether a mountain cell is hollowed out by a cave.
func (g *Generator) carved(col Column, y int) bool {
	if col.Biome != Mountain || y < CaveFloor || y >= CaveRoof {
		return false
	}
	fx, fz := g.sample(col.X, col.Z)
	return g.caveNoise(fx, float32(y), fz) > CaveThreshold
}

// mineral swaps mountain stone for gravel or ore. Ores only appear between
// the lava band and just above the stone line.
func (g *Generator) mineral(col Column, y int, base block.Type) block.Type {
	if col.Biome != Mountain || base != block.Stone {
		return base
	}
	h := noise.Hash3(g.seed, col.X, y, col.Z)
	r := noise.Roll(h, saltOre, 100)
	switch {
	case r < 80:
		return base
	case r < 98:
		return block.Gravel
	case y <= 27 || y >= 140:
		return base
	}
	switch k := noise.Roll(h, saltOreKind, 100); {
	case k < 85:
		return block.Coal
	case k < 95:
		return block.Copper
	case k < 98:
		return block.Gold
	default:
		return block.Lapis
	}
}

func (g *Generator) fillColumn(b *world.Blocks, dx, dz int, col Column) {
	for y := 0; y <= col.Top; y++ {
		base := surface(col.Biome, y, col.Top)
		if g.carved(col, y) {
			if base == block.Lava {
				b.Set(dx, y, dz, block.Lava)
			} else {
				b.Set(dx, y, dz, block.Empty)
			}
			continue
		}
		b.Set(dx, y, dz, g.mineral(col, y, base))
	}

	if col.Top < SeaLevel {
		liquid := block.Water
		if col.Biome == SnowyPlains {
			liquid = block.Ice
		}
		for y := col.Top + 1; y <= SeaLevel; y++ {
			b.Set(dx, y, dz, liquid)
		}
	}
}
