package noise

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Simplex is a seeded OpenSimplex field. The permutation tables are built in
// New and only read afterwards, so one value can be shared by all workers.
type Simplex struct {
	noise opensimplex.Noise32
}

// NewSimplex returns a field normalized to [0, 1].
func NewSimplex(seed int64) *Simplex {
	return &Simplex{noise: opensimplex.NewNormalized32(seed)}
}

// Eval2 samples the field once.
func (s *Simplex) Eval2(x, z float32) float32 {
	return s.noise.Eval2(x, z)
}

// Eval3 samples the 3D field once.
func (s *Simplex) Eval3(x, y, z float32) float32 {
	return s.noise.Eval3(x, y, z)
}

// Fractal2D sums octaves of the field at the given scale, doubling the
// frequency each octave, and normalizes back to [0, 1].
func (s *Simplex) Fractal2D(x, z float32, octaves int, persistence, scale float32) float32 {
	if octaves <= 0 {
		return 0
	}
	var val, total float32
	amp := float32(1)
	x /= scale
	z /= scale
	for i := 0; i < octaves; i++ {
		val += s.noise.Eval2(x, z) * amp
		total += amp
		x *= 2
		z *= 2
		amp *= persistence
	}
	return val / total
}
