package swarm

import (
	"fmt"
	"math"
	"math/rand"
)

// Shape identifies a named silhouette template.
type Shape uint8

const (
	ShapeHeart Shape = iota
	ShapeSpiral
	ShapeRing
	ShapeBurst

	numShapes
)

// Template layout constants, expressed as fractions of the field bound.
const (
	heartScale       = 1.0 / 18.0 // cardioid curve spans roughly [-16,16] before scaling
	spiralInnerFrac  = 0.15
	spiralOuterFrac  = 0.65
	spiralTurns      = 3.0
	spiralHeightFrac = 1.2
	ringRadiusFrac   = 0.75
	ringJitterFrac   = 0.03
)

// String returns the shape's config/display name.
func (s Shape) String() string {
	switch s {
	case ShapeHeart:
		return "heart"
	case ShapeSpiral:
		return "spiral"
	case ShapeRing:
		return "ring"
	case ShapeBurst:
		return "burst"
	}
	return "unknown"
}

// ParseShape maps a shape name to its identifier. Unknown names are rejected
// here, at the boundary, so they never reach the morph state.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "heart":
		return ShapeHeart, nil
	case "spiral":
		return ShapeSpiral, nil
	case "ring":
		return ShapeRing, nil
	case "burst":
		return ShapeBurst, nil
	}
	return ShapeHeart, fmt.Errorf("unknown shape %q", name)
}

// Shapes returns all defined shapes in their cyclic order.
func Shapes() []Shape {
	return []Shape{ShapeHeart, ShapeSpiral, ShapeRing, ShapeBurst}
}

// Next returns the following shape in the cyclic ordering.
func (s Shape) Next() Shape {
	return (s + 1) % numShapes
}

// Prev returns the preceding shape in the cyclic ordering.
func (s Shape) Prev() Shape {
	return (s + numShapes - 1) % numShapes
}

// Generate returns the target position of particle index under the given
// shape, for a field of total particles inside [-bound, bound]^3.
//
// Heart and spiral are closed-form and stable under repeated calls. Ring adds
// independent per-call jitter and burst is fully stochastic; both re-sample
// from rng on every call, which is fine since only the aggregate silhouette
// matters. An out-of-range shape falls back to heart rather than producing an
// empty field.
func Generate(shape Shape, index, total int, bound float32, rng *rand.Rand) Vec3 {
	switch shape {
	case ShapeHeart:
		return heartPoint(index, total, bound)
	case ShapeSpiral:
		return spiralPoint(index, total, bound)
	case ShapeRing:
		return ringPoint(index, total, bound, rng)
	case ShapeBurst:
		return burstPoint(bound, rng)
	}
	return heartPoint(index, total, bound)
}

// heartPoint evaluates the classic cardioid-derived heart curve, scaled so the
// silhouette fits the bound.
func heartPoint(index, total int, bound float32) Vec3 {
	t := 2 * math.Pi * float64(index) / float64(total)
	x := 16 * math.Pow(math.Sin(t), 3)
	y := 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
	s := bound * heartScale
	return Vec3{
		X: float32(x) * s,
		Y: float32(y) * s,
		Z: 0,
	}
}

// spiralPoint places particles on a helix around the vertical axis. Radius and
// height both grow with index, so the silhouette reads as a 3D coil.
func spiralPoint(index, total int, bound float32) Vec3 {
	t := float64(index) / float64(total)
	theta := t * spiralTurns * 2 * math.Pi
	r := float64(bound) * (spiralInnerFrac + t*(spiralOuterFrac-spiralInnerFrac))
	return Vec3{
		X: float32(r * math.Cos(theta)),
		Y: float32(bound) * float32(t-0.5) * spiralHeightFrac,
		Z: float32(r * math.Sin(theta)),
	}
}

// ringPoint places particles on a circle of fixed radius around the vertical
// axis, with small independent jitter per call.
func ringPoint(index, total int, bound float32, rng *rand.Rand) Vec3 {
	theta := 2 * math.Pi * float64(index) / float64(total)
	r := float64(bound) * ringRadiusFrac
	j := bound * ringJitterFrac
	return Vec3{
		X: float32(r*math.Cos(theta)) + (rng.Float32()-0.5)*2*j,
		Y: (rng.Float32() - 0.5) * 2 * j,
		Z: float32(r*math.Sin(theta)) + (rng.Float32()-0.5)*2*j,
	}
}

// burstPoint samples uniformly inside the bounding cube.
func burstPoint(bound float32, rng *rand.Rand) Vec3 {
	return Vec3{
		X: (rng.Float32() - 0.5) * 2 * bound,
		Y: (rng.Float32() - 0.5) * 2 * bound,
		Z: (rng.Float32() - 0.5) * 2 * bound,
	}
}
