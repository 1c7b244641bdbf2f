package swarm

import (
	"math"
	"math/rand"
	"testing"
)

const testBound = float32(10.0)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func finite(v Vec3) bool {
	for _, f := range []float32{v.X, v.Y, v.Z} {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}

func TestGenerate_FiniteAndBounded(t *testing.T) {
	rng := testRNG()
	const n = 500

	for _, shape := range Shapes() {
		for i := 0; i < n; i++ {
			p := Generate(shape, i, n, testBound, rng)
			if !finite(p) {
				t.Fatalf("%s index %d: non-finite position %+v", shape, i, p)
			}
			// All templates fit the bounding cube with a little slack for jitter.
			limit := testBound * 1.1
			if abs32(p.X) > limit || abs32(p.Y) > limit || abs32(p.Z) > limit {
				t.Errorf("%s index %d: position %+v outside bound %.1f", shape, i, p, limit)
			}
		}
	}
}

func TestGenerate_DeterministicShapesStable(t *testing.T) {
	rng := testRNG()
	const n = 100

	for _, shape := range []Shape{ShapeHeart, ShapeSpiral} {
		for i := 0; i < n; i++ {
			a := Generate(shape, i, n, testBound, rng)
			b := Generate(shape, i, n, testBound, rng)
			if a != b {
				t.Errorf("%s index %d: repeated calls differ: %+v vs %+v", shape, i, a, b)
			}
		}
	}
}

func TestGenerate_RingLayout(t *testing.T) {
	rng := testRNG()
	const n = 4
	wantRadius := float64(testBound) * ringRadiusFrac
	tol := float64(testBound) * ringJitterFrac * 4 // jitter tolerance

	var angles []float64
	for i := 0; i < n; i++ {
		p := Generate(ShapeRing, i, n, testBound, rng)

		// Distance from the vertical axis.
		r := math.Hypot(float64(p.X), float64(p.Z))
		if math.Abs(r-wantRadius) > tol {
			t.Errorf("index %d: radius %.3f, want %.3f ± %.3f", i, r, wantRadius, tol)
		}
		angles = append(angles, math.Atan2(float64(p.Z), float64(p.X)))
	}

	// Consecutive points differ in angle by 2π/4.
	step := 2 * math.Pi / n
	for i := 1; i < n; i++ {
		d := angles[i] - angles[i-1]
		for d < 0 {
			d += 2 * math.Pi
		}
		if math.Abs(d-step) > 0.1 {
			t.Errorf("angle step %d: %.3f rad, want %.3f", i, d, step)
		}
	}
}

func TestParseShape(t *testing.T) {
	for _, shape := range Shapes() {
		got, err := ParseShape(shape.String())
		if err != nil {
			t.Fatalf("ParseShape(%q): %v", shape.String(), err)
		}
		if got != shape {
			t.Errorf("ParseShape(%q) = %v, want %v", shape.String(), got, shape)
		}
	}

	if _, err := ParseShape("dodecahedron"); err == nil {
		t.Error("expected error for unknown shape name")
	}
}

func TestShapeCycle(t *testing.T) {
	shapes := Shapes()
	for i, s := range shapes {
		wantNext := shapes[(i+1)%len(shapes)]
		if s.Next() != wantNext {
			t.Errorf("%v.Next() = %v, want %v", s, s.Next(), wantNext)
		}
		wantPrev := shapes[(i+len(shapes)-1)%len(shapes)]
		if s.Prev() != wantPrev {
			t.Errorf("%v.Prev() = %v, want %v", s, s.Prev(), wantPrev)
		}
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
