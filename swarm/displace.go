package swarm

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Phase offsets decorrelating the three noise axes.
const (
	noisePhaseY = 37.41
	noisePhaseZ = 74.93
)

const sizeIndexPhase = 0.017 // per-index phase for the size pulse

// Appearance holds the color/size modulation constants of the kernel.
type Appearance struct {
	BaseSize     float32
	HueRate      float32 // hue revolutions per second
	HueIndexStep float32 // per-index hue offset
	PulseRate    float32
	Saturation   float32
	Value        float32
}

// Displacer evaluates the per-particle, per-frame displacement model. It
// holds no per-particle state: each frame's output is a pure function of the
// interpolated base position, elapsed time, particle index, and the live
// Controls, which keeps the evaluation trivially parallelizable.
type Displacer struct {
	noise opensimplex.Noise
	look  Appearance
}

// NewDisplacer creates a displacement kernel seeded for the noise field.
func NewDisplacer(seed int64, look Appearance) *Displacer {
	return &Displacer{
		noise: opensimplex.New(seed),
		look:  look,
	}
}

// Eval computes particle index's rendered position, color, and size.
// elapsed is time since animation start; it is never reset by morphing.
func (d *Displacer) Eval(base Vec3, index int, elapsed float32, c *Controls) (Vec3, RGBA, float32) {
	// Gravity drift accumulates on the vertical axis.
	pos := base
	pos.Y += c.Gravity * elapsed

	// Three decorrelated noise evaluations, one per output axis, sampled at
	// the scaled base position and animated by elapsed time.
	nx := float64(pos.X * c.NoiseScale)
	ny := float64(pos.Y * c.NoiseScale)
	nz := float64(pos.Z * c.NoiseScale)
	nt := float64(elapsed * c.NoiseSpeed)
	off := Vec3{
		X: float32(d.noise.Eval4(nx, ny, nz, nt)),
		Y: float32(d.noise.Eval4(nx, ny, nz, nt+noisePhaseY)),
		Z: float32(d.noise.Eval4(nx, ny, nz, nt+noisePhaseZ)),
	}
	pos = pos.Add(off.Scale(c.Spread))

	// Bounded attraction toward the control point: force 1/(1+|d|^2) never
	// divides by zero and decays smoothly with distance.
	dir := c.Attraction.Sub(pos)
	distSq := dir.LenSq()
	if distSq > 1e-12 {
		force := 1 / (1 + distSq)
		invLen := 1 / float32(math.Sqrt(float64(distSq)))
		pos = pos.Add(dir.Scale(invLen * force * c.AttractionScale))
	}

	color := d.colorAt(index, elapsed, c)
	size := d.sizeAt(index, elapsed)

	return pos, color, size
}

// colorAt derives the rendered color: a slow per-particle hue rotation unless
// a gesture has pinned an override color.
func (d *Displacer) colorAt(index int, elapsed float32, c *Controls) RGBA {
	if c.ColorActive {
		return c.ColorOverride
	}
	hue := fract(elapsed*d.look.HueRate + float32(index)*d.look.HueIndexStep)
	return HSV(hue, d.look.Saturation, d.look.Value)
}

// sizeAt derives the pulsing point size from time and index alone.
func (d *Displacer) sizeAt(index int, elapsed float32) float32 {
	pulse := math.Sin(float64(elapsed*d.look.PulseRate + float32(index)*sizeIndexPhase))
	return d.look.BaseSize * (1 + float32(pulse))
}

// fract returns the fractional part of x.
func fract(x float32) float32 {
	return x - float32(math.Floor(float64(x)))
}

// HSV converts hue/saturation/value in [0,1] to an opaque RGBA color.
func HSV(h, s, v float32) RGBA {
	h = fract(h) * 6
	i := int(h)
	f := h - float32(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float32
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return RGBA{
		R: uint8(r * 255),
		G: uint8(g * 255),
		B: uint8(b * 255),
		A: 255,
	}
}
