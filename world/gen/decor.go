package gen

import (
	"math"

	"opencraft/block"
	"opencraft/noise"
	"opencraft/world"
)

const (
	patchThreshold     = 0.64
	grassTreeThreshold = 0.85
	snowTreeThreshold  = 0.87
	cactusThreshold    = 0.89
)

// decorator writes decorations in world coordinates into one chunk. Cells
// outside the chunk are dropped.
type decorator struct {
	blocks     *world.Blocks
	minX, minZ int
	seed       int64
}

func (d *decorator) set(x, y, z int, t block.Type) {
	d.blocks.Set(x-d.minX, y, z-d.minZ, t)
}

// grow places foliage without overwriting anything solid.
func (d *decorator) grow(x, y, z int, t block.Type) {
	if d.blocks.At(x-d.minX, y, z-d.minZ) != block.Empty {
		return
	}
	d.set(x, y, z, t)
}

func (d *decorator) roll(x, y, z int, salt uint64, n int) int {
	return noise.Roll(noise.Hash3(d.seed, x, y, z), salt, n)
}

func (g *Generator) patchNoise(x, z int) float32 {
	fx, fz := g.sample(x, z)
	return g.decor.Fractal2D(fx, fz, 3, 0.5, 6)
}

func (g *Generator) treeNoise(x, z int) float32 {
	fx, fz := g.sample(x, z)
	return noise.ValueFBM(fx, fz)
}

// decorate places at most one patch and one tree or cactus on a column that
// stands above sea level.
func (g *Generator) decorate(d *decorator, col Column) {
	if col.Top < SeaLevel {
		return
	}
	x, y, z := col.X, col.Top, col.Z

	if g.patchNoise(x, z) > patchThreshold {
		switch col.Biome {
		case SnowyPlains, Mountain:
			d.set(x, y, z, block.SnowGrassPatch)
		case Grassland:
			d.set(x, y, z, block.DirtGrassPatch)
		case Desert:
			d.set(x, y, z, block.SandCrack)
		}
	}

	t := g.treeNoise(x, z)
	r := d.roll(x, y, z, saltTree, 100)
	switch {
	case col.Biome == Grassland && t > grassTreeThreshold:
		switch {
		case r < 50:
			d.oakTree(x, y, z)
		case r < 90:
			d.tallOakTree(x, y, z)
		default:
			d.fallenLog(x, y, z)
		}
	case col.Biome == SnowyPlains && t > snowTreeThreshold:
		switch {
		case r < 30:
			d.snowTree(x, y, z)
		case r < 60:
			d.layeredSnowTree(x, y, z)
		case r < 90:
			d.deadSnowTree(x, y, z)
		default:
			d.ringSnowTree(x, y, z)
		}
	case col.Biome == Desert && t > cactusThreshold:
		d.cactus(x, y, z)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// diamondCrown puts a two layer diamond of leaves on a trunk and a single
// leaf on top.
func (d *decorator) diamondCrown(x, y, z, radius int, leaf block.Type) {
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			dist := abs(dx) + abs(dz)
			if dist <= 2 {
				d.grow(x+dx, y, z+dz, leaf)
			}
			if dist <= 1 {
				d.grow(x+dx, y+1, z+dz, leaf)
			}
		}
	}
	d.grow(x, y+2, z, leaf)
}

func (d *decorator) trunk(x, y, z, height int) {
	for i := y; i < y+height; i++ {
		d.set(x, i, z, block.Wood)
	}
}

func (d *decorator) oakTree(x, y, z int) {
	d.trunk(x, y, z, 4)
	d.diamondCrown(x, y+3, z, 2, block.Leaf)
}

func (d *decorator) tallOakTree(x, y, z int) {
	d.trunk(x, y, z, 6)
	d.diamondCrown(x, y+4, z, 1, block.Leaf)
}

func (d *decorator) snowTree(x, y, z int) {
	d.trunk(x, y, z, 4)
	d.diamondCrown(x, y+3, z, 2, block.SnowLeaf)
}

// layeredSnowTree is a tall trunk with shrinking leaf discs every other
// block.
func (d *decorator) layeredSnowTree(x, y, z int) {
	d.trunk(x, y, z, 8)
	for layer := 0; layer <= 3; layer += 2 {
		r := 3 - layer
		for dx := -r; dx <= r; dx++ {
			for dz := -r; dz <= r; dz++ {
				if abs(dx)+abs(dz) <= r {
					d.grow(x+dx, y+4+layer, z+dz, block.SnowLeaf)
				}
			}
		}
	}
	d.grow(x, y+8, z, block.SnowLeaf)
}

func (d *decorator) deadSnowTree(x, y, z int) {
	for i := y; i < y+10; i++ {
		d.set(x, i, z, block.Wood)
		if i <= y+3 || i >= y+8 {
			continue
		}
		switch r := d.roll(x, i, z, saltBranch, 4); r {
		case 0:
			d.grow(x+1, i, z, block.SnowLeaf)
		case 1:
			d.grow(x, i, z+1, block.SnowLeaf)
		case 2:
			d.grow(x, i, z-1, block.SnowLeaf)
		default:
			d.grow(x-1, i, z, block.SnowLeaf)
		}
	}
}

// ringSnowTree hangs rings of leaves around the trunk top, some capped with
// snow.
func (d *decorator) ringSnowTree(x, y, z int) {
	const height = 6
	d.trunk(x, y, z, height)
	for h := 4; h < height; h++ {
		r := float64(1 + height - h)
		for angle := 0; angle < 360; angle += 20 {
			rad := float64(angle) * math.Pi / 180
			dx := int(r * math.Cos(rad))
			dz := int(r * math.Sin(rad))
			d.grow(x+dx, y+h, z+dz, block.SnowLeaf)
			if d.roll(x+dx, y+h, z+dz, saltSnowCap, 2) == 0 {
				d.grow(x+dx, y+h+1, z+dz, block.Snow)
			}
		}
	}
}

func (d *decorator) fallenLog(x, y, z int) {
	for i := z; i < z+3; i++ {
		d.grow(x, y+1, i, block.SideWood)
	}
}

func (d *decorator) cactus(x, y, z int) {
	height := 3
	switch r := d.roll(x, y, z, saltCactus, 100); {
	case r < 30:
		height = 1
	case r < 70:
		height = 2
	}
	for i := 1; i <= height; i++ {
		d.set(x, y+i, z, block.Cactus)
	}
}
