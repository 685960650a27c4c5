// Package noise holds the coherent and hash noise functions used by terrain
// generation. Everything here is a pure function of its arguments, so the
// same input gives the same bits on every goroutine.
package noise

import "math"

func fract(v float64) float64 {
	return v - math.Floor(v)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Random1D hashes a 2D point to [0, 1).
func Random1D(x, z float32) float32 {
	return float32(fract(math.Sin(float64(x)*127.1+float64(z)*311.7) * 43758.5453))
}

// Random2D hashes a 2D point to a pair in [0, 1).
func Random2D(x, z float32) (float32, float32) {
	a := fract(math.Sin(float64(x)*127.1+float64(z)*311.7) * 43758.5453)
	b := fract(math.Sin(float64(x)*269.5+float64(z)*183.3) * 43758.5453)
	return float32(a), float32(b)
}

// Random3D hashes a 3D point to a triple in [0, 1).
func Random3D(x, y, z float32) (float32, float32, float32) {
	fx, fy, fz := float64(x), float64(y), float64(z)
	a := fract(math.Sin(fx*127.1+fy*311.7+fz) * 43758.5453)
	b := fract(math.Sin(fx*269.5+fy*183.3+fz) * 43758.5453)
	c := fract(math.Sin(fx*113.5+fy*271.9+fz) * 43758.5453)
	return float32(a), float32(b), float32(c)
}

// Fade is the quintic falloff used by the surflets: 1 at distance 0 and 0 at
// distance 1.
func Fade(t float32) float32 {
	return 1 - t*t*t*(t*(t*6-15)+10)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func floor32(v float32) float32 {
	return float32(math.Floor(float64(v)))
}

// Perlin samples 2D surflet Perlin noise on a lattice of the given grid size.
// The result is clamped to [-1, 1].
func Perlin(x, z, grid float32) float32 {
	x /= grid
	z /= grid
	cx, cz := floor32(x), floor32(z)

	var sum float32
	for dx := float32(0); dx <= 1; dx++ {
		for dz := float32(0); dz <= 1; dz++ {
			gx, gz := cx+dx, cz+dz
			ox, oz := x-gx, z-gz
			rx, rz := Random2D(gx, gz)
			height := ox*(2*rx-1) + oz*(2*rz-1)
			sum += height * Fade(abs32(ox)) * Fade(abs32(oz))
		}
	}
	return clamp(sum, -1, 1)
}

// Perlin3D samples 3D surflet Perlin noise on the unit lattice.
func Perlin3D(x, y, z float32) float32 {
	cx, cy, cz := floor32(x), floor32(y), floor32(z)

	var sum float32
	for dx := float32(0); dx <= 1; dx++ {
		for dy := float32(0); dy <= 1; dy++ {
			for dz := float32(0); dz <= 1; dz++ {
				gx, gy, gz := cx+dx, cy+dy, cz+dz
				ox, oy, oz := x-gx, y-gy, z-gz
				rx, ry, rz := Random3D(gx, gy, gz)
				height := ox*(2*rx-1) + oy*(2*ry-1) + oz*(2*rz-1)
				sum += height * Fade(abs32(ox)) * Fade(abs32(oy)) * Fade(abs32(oz))
			}
		}
	}
	return sum
}

// Voronoi returns a smoothed distance to the nearest feature point of the
// 3x3 cell neighborhood around (x, z), in cell units.
func Voronoi(x, z, grid float32) float32 {
	x /= grid
	z /= grid
	cx, cz := floor32(x), floor32(z)

	var res float64
	for i := float32(-1); i <= 1; i++ {
		for j := float32(-1); j <= 1; j++ {
			px, pz := Random2D(cx+i, cz+j)
			dx := float64(cx + i + px - x)
			dz := float64(cz + j + pz - z)
			res += 1 / math.Pow(dx*dx+dz*dz, 8)
		}
	}
	return float32(math.Pow(1/res, 1.0/16))
}
