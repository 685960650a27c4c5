package noise

import "math"

// Func2D is a lattice noise sampled at (x, z) with a grid size.
type Func2D func(x, z, grid float32) float32

// Transform reshapes each octave sample before it is accumulated.
type Transform func(v float32) float32

// Octaves configures fractal summation.
type Octaves struct {
	Count       int
	Persistence float32
	Lacunarity  float32
}

// DefaultOctaves halves the amplitude and doubles the frequency per octave.
func DefaultOctaves(count int) Octaves {
	return Octaves{Count: count, Persistence: 0.5, Lacunarity: 2}
}

func randomLattice(x, z, grid float32) float32 {
	return Random1D(x/grid, z/grid)
}

// FBM sums octaves of fn with the default persistence and lacunarity.
// A nil fn samples Random1D and a nil tf leaves samples untouched.
func FBM(x, z, grid float32, octaves int, fn Func2D, tf Transform) float32 {
	return FBMWith(x, z, grid, DefaultOctaves(octaves), fn, tf)
}

// FBMWith is FBM with explicit octave settings. The sum is normalized by the
// total amplitude, so the output stays in the range of fn.
func FBMWith(x, z, grid float32, o Octaves, fn Func2D, tf Transform) float32 {
	if o.Count <= 0 {
		return 0
	}
	if fn == nil {
		fn = randomLattice
	}
	var res, total float32
	amp, freq := float32(1), float32(1)
	for i := 0; i < o.Count; i++ {
		v := fn(x*freq, z*freq, grid)
		if tf != nil {
			v = tf(v)
		}
		res += v * amp
		total += amp
		amp *= o.Persistence
		freq *= o.Lacunarity
	}
	return res / total
}

func interpNoise2D(x, z float32) float32 {
	ix, iz := floor32(x), floor32(z)
	fx, fz := x-ix, z-iz

	v1 := Random1D(ix, iz)
	v2 := Random1D(ix+1, iz)
	v3 := Random1D(ix, iz+1)
	v4 := Random1D(ix+1, iz+1)

	i1 := mix(v1, v2, fx)
	i2 := mix(v3, v4, fx)
	return mix(i1, i2, fz)
}

// ValueFBM is five octaves of bilinear value noise on the unit lattice,
// starting at frequency 2. The result lies in [0, 1).
func ValueFBM(x, z float32) float32 {
	var total float32
	freq, amp := float32(2), float32(0.5)
	for i := 0; i < 5; i++ {
		total += interpNoise2D(x*freq, z*freq) * amp
		freq *= 2
		amp *= 0.5
	}
	return total
}

func mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Mix linearly interpolates between a and b.
func Mix(a, b, t float32) float32 { return mix(a, b, t) }

// Smoothstep is the Hermite step between edge0 and edge1.
func Smoothstep(edge0, edge1, v float32) float32 {
	t := clamp((v-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 { return clamp(v, lo, hi) }

// Pow is math.Pow in float32.
func Pow(v, e float32) float32 {
	return float32(math.Pow(float64(v), float64(e)))
}
