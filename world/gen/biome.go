package gen

import (
	"math"

	"opencraft/noise"
)

// Biome is the climate class of a column.
type Biome uint8

const (
	Mountain Biome = iota
	Desert
	SnowyPlains
	Grassland
)

func (b Biome) String() string {
	switch b {
	case Mountain:
		return "mountain"
	case Desert:
		return "desert"
	case SnowyPlains:
		return "snowy_plains"
	case Grassland:
		return "grassland"
	}
	return "unknown"
}

// BiomeFor splits the climate plane into quadrants at 0.5.
func BiomeFor(moisture, temperature float32) Biome {
	if moisture < 0.5 {
		if temperature < 0.5 {
			return Mountain
		}
		return Desert
	}
	if temperature < 0.5 {
		return SnowyPlains
	}
	return Grassland
}

const climateGrid = 750

func (g *Generator) temperature(x, z float32) float32 {
	return noise.Voronoi(x, z, climateGrid)
}

func (g *Generator) moisture(x, z float32) float32 {
	v := (noise.Perlin(x, z, climateGrid) + 1) / 2
	return noise.Smoothstep(0.2, 0.8, v)
}

func (g *Generator) mountainHeight(x, z float32) float32 {
	ridge := noise.FBM(x, z, 200, 4, noise.Voronoi, nil)
	if ridge < 0 {
		ridge = -ridge
	}
	v := noise.Clamp(noise.Pow((1-ridge)*1.5, 5), 0, 1)
	base := noise.Perlin(x, z, 16)
	return 135 + base*20 + v*100
}

func stepped(v, steps float32) float32 {
	return float32(math.Round(float64(v*steps))) / steps
}

func (g *Generator) flatHeight(x, z float32) float32 {
	v := noise.FBM(x, z, 80, 3, noise.Voronoi, nil)
	return 128 + stepped(v, 50)*30
}

func (g *Generator) snowyPlainsHeight(x, z float32) float32 {
	v := noise.FBM(x, z, 120, 3, noise.Voronoi, nil)
	v = noise.Smoothstep(0.1, 0.9, stepped(v, 100))
	return 135 + v*35
}

// height blends the three biome height fields with soft climate weights,
// so biome borders never show a cliff.
func (g *Generator) height(x, z, moisture, temperature float32) float32 {
	mountain := g.mountainHeight(x, z)
	flat := g.flatHeight(x, z)
	snowy := g.snowyPlainsHeight(x, z)

	m := noise.Smoothstep(0.4, 0.6, moisture)
	t := noise.Smoothstep(0.4, 0.6, temperature)
	h1 := noise.Mix(mountain, flat, m)
	h2 := noise.Mix(flat+10, snowy, m)
	return noise.Mix(h1, h2, t)
}
