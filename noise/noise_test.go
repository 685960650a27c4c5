package noise

import (
	"math"
	"testing"
)

func TestRandomRange(t *testing.T) {
	for i := 0; i < 5000; i++ {
		x := float32(i)*1.7 - 3000
		z := float32(i)*0.9 - 1200
		if v := Random1D(x, z); v < 0 || v >= 1 {
			t.Fatalf("Random1D(%f, %f) = %f, want [0,1)", x, z, v)
		}
		a, b := Random2D(x, z)
		if a < 0 || a >= 1 || b < 0 || b >= 1 {
			t.Fatalf("Random2D(%f, %f) = (%f, %f), want [0,1)", x, z, a, b)
		}
		p, q, r := Random3D(x, float32(i%256), z)
		if p < 0 || p >= 1 || q < 0 || q >= 1 || r < 0 || r >= 1 {
			t.Fatalf("Random3D out of range: %f %f %f", p, q, r)
		}
	}
}

func TestDeterminism(t *testing.T) {
	for i := 0; i < 200; i++ {
		x := float32(i)*13.37 - 900
		z := float32(i)*7.21 + 40
		if Perlin(x, z, 750) != Perlin(x, z, 750) {
			t.Fatalf("Perlin not deterministic at (%f, %f)", x, z)
		}
		if Voronoi(x, z, 80) != Voronoi(x, z, 80) {
			t.Fatalf("Voronoi not deterministic at (%f, %f)", x, z)
		}
		if FBM(x, z, 200, 4, Voronoi, nil) != FBM(x, z, 200, 4, Voronoi, nil) {
			t.Fatalf("FBM not deterministic at (%f, %f)", x, z)
		}
		if Perlin3D(x/34, float32(i)/33, z/34) != Perlin3D(x/34, float32(i)/33, z/34) {
			t.Fatalf("Perlin3D not deterministic at (%f, %f)", x, z)
		}
	}
}

func TestFade(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 1},
		{1, 0},
		{0.5, 0.5},
	}
	for _, tt := range tests {
		if got := Fade(tt.in); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("Fade(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestPerlinRangeAndLattice(t *testing.T) {
	for i := 0; i < 5000; i++ {
		x := float32(i)*3.1 - 7000
		z := float32(i)*2.3 - 4000
		if v := Perlin(x, z, 16); v < -1 || v > 1 {
			t.Fatalf("Perlin(%f, %f) = %f, out of [-1,1]", x, z, v)
		}
	}
	// Every surflet vanishes at its own lattice point.
	for gx := -4; gx <= 4; gx++ {
		for gz := -4; gz <= 4; gz++ {
			if v := Perlin(float32(gx*16), float32(gz*16), 16); v != 0 {
				t.Errorf("Perlin at lattice (%d, %d) = %f, want 0", gx, gz, v)
			}
		}
	}
}

func TestVoronoiNonNegative(t *testing.T) {
	for i := 0; i < 2000; i++ {
		x := float32(i)*5.3 - 5000
		z := float32(i)*1.9 + 100
		v := Voronoi(x, z, 750)
		if v < 0 || math.IsNaN(float64(v)) {
			t.Fatalf("Voronoi(%f, %f) = %f", x, z, v)
		}
	}
}

func TestFBMNormalized(t *testing.T) {
	// Random1D is in [0,1), so the normalized sum must be too.
	for i := 0; i < 1000; i++ {
		x := float32(i) * 11.3
		z := float32(i) * -4.7
		if v := FBM(x, z, 80, 5, nil, nil); v < 0 || v >= 1 {
			t.Fatalf("FBM(%f, %f) = %f, want [0,1)", x, z, v)
		}
	}
	if v := FBM(1, 2, 3, 0, nil, nil); v != 0 {
		t.Errorf("FBM with zero octaves = %f, want 0", v)
	}
	double := func(v float32) float32 { return v * 2 }
	plain := FBM(12, 34, 80, 3, nil, nil)
	if got := FBM(12, 34, 80, 3, nil, double); math.Abs(float64(got-2*plain)) > 1e-5 {
		t.Errorf("FBM with doubling transform = %f, want %f", got, 2*plain)
	}
}

func TestValueFBMRange(t *testing.T) {
	for i := 0; i < 2000; i++ {
		v := ValueFBM(float32(i)*0.37-100, float32(i)*0.11)
		if v < 0 || v >= 1 {
			t.Fatalf("ValueFBM out of range: %f", v)
		}
	}
}

func TestSimplexFractal(t *testing.T) {
	a := NewSimplex(42)
	b := NewSimplex(42)
	for i := 0; i < 500; i++ {
		x, z := float32(i)*1.3, float32(i)*-0.7
		va := a.Fractal2D(x, z, 3, 0.5, 8)
		if va != b.Fractal2D(x, z, 3, 0.5, 8) {
			t.Fatalf("Fractal2D not deterministic at (%f, %f)", x, z)
		}
		if va < 0 || va > 1 {
			t.Fatalf("Fractal2D(%f, %f) = %f, want [0,1]", x, z, va)
		}
	}
}

func TestHashSpread(t *testing.T) {
	if Hash3(1, 2, 3, 4) != Hash3(1, 2, 3, 4) {
		t.Fatal("Hash3 not deterministic")
	}
	if Hash3(1, 2, 3, 4) == Hash3(2, 2, 3, 4) {
		t.Error("Hash3 ignores the seed")
	}
	counts := make([]int, 10)
	for x := 0; x < 100; x++ {
		for z := 0; z < 100; z++ {
			counts[Roll(Hash2(7, x, z), 1, 10)]++
		}
	}
	for i, c := range counts {
		if c < 800 || c > 1200 {
			t.Errorf("bucket %d got %d of 10000 rolls", i, c)
		}
	}
}
