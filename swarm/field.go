package swarm

import "math/rand"

// Field owns the per-particle start/end position buffers and the morph state.
// It interpolates the whole field from one shape to another over a fixed
// duration. At most one morph is in flight; a new request while morphing
// adopts the currently interpolated positions as the new starts, so there is
// never a visual discontinuity at the trigger instant.
type Field struct {
	count    int
	bound    float32
	duration float32

	current Shape
	target  Shape
	elapsed float32

	start []Vec3
	end   []Vec3

	rng *rand.Rand
}

// NewField creates a field of count particles sampled under the initial shape.
// The field starts stable: start and end both hold the initial silhouette.
func NewField(count int, bound, duration float32, initial Shape, rng *rand.Rand) *Field {
	f := &Field{
		count:    count,
		bound:    bound,
		duration: duration,
		current:  initial,
		target:   initial,
		start:    make([]Vec3, count),
		end:      make([]Vec3, count),
		rng:      rng,
	}
	for i := 0; i < count; i++ {
		p := Generate(initial, i, count, bound, rng)
		f.start[i] = p
		f.end[i] = p
	}
	return f
}

// Count returns the particle count, fixed for the field's lifetime.
func (f *Field) Count() int { return f.count }

// Current returns the shape the field is morphing from (or resting at).
func (f *Field) Current() Shape { return f.current }

// Target returns the shape the field is morphing toward.
func (f *Field) Target() Shape { return f.target }

// Morphing reports whether a transition is in flight.
func (f *Field) Morphing() bool { return f.current != f.target }

// Factor returns the interpolation progress in [0,1]. It is exactly 0 when
// the field is stable.
func (f *Field) Factor() float32 {
	if !f.Morphing() {
		return 0
	}
	return clamp(f.elapsed/f.duration, 0, 1)
}

// Base returns particle i's interpolated base position for the current frame.
func (f *Field) Base(i int) Vec3 {
	if !f.Morphing() {
		return f.start[i]
	}
	return Lerp(f.start[i], f.end[i], f.Factor())
}

// Morph requests a transition toward shape. Requesting the shape the field is
// already at (or already heading to) is a no-op; there is no queueing of
// pending morphs. While morphing, the request is treated as a fresh
// transition: current interpolated positions become the new starts.
//
// This is the only place the start/end buffers are rewritten, O(N) once per
// transition, never per frame.
func (f *Field) Morph(shape Shape) {
	if shape == f.target {
		return
	}
	if f.Morphing() {
		// Freeze the in-flight interpolation as the new origin.
		factor := f.Factor()
		for i := range f.start {
			f.start[i] = Lerp(f.start[i], f.end[i], factor)
		}
	}
	for i := range f.end {
		f.end[i] = Generate(shape, i, f.count, f.bound, f.rng)
	}
	f.current = f.target
	f.target = shape
	f.elapsed = 0
}

// Advance progresses the morph by dt seconds. On completion the target
// becomes current and the factor resets to exactly 0.
func (f *Field) Advance(dt float32) {
	if !f.Morphing() {
		return
	}
	f.elapsed += dt
	if f.elapsed >= f.duration {
		copy(f.start, f.end)
		f.current = f.target
		f.elapsed = 0
	}
}
