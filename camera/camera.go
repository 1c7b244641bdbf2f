// Package camera provides an orbiting perspective camera for the swarm view.
package camera

import (
	"math"

	"github.com/solenne/murmur/swarm"
)

// Camera orbits the world origin at a fixed distance and projects world
// positions into screen pixels. Yaw spins around the vertical axis, pitch
// tilts above or below the horizon.
type Camera struct {
	// Distance from the origin along the view ray
	Distance float32

	// Orbit angles in radians
	Yaw, Pitch float32

	// Focal length in pixels (controls field of view)
	Focal float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Distance constraints
	MinDistance, MaxDistance float32
}

// New creates a camera looking at the origin from the given distance.
func New(viewportW, viewportH, distance float32) *Camera {
	return &Camera{
		Distance:    distance,
		Focal:       viewportH * 0.9,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: distance * 0.3,
		MaxDistance: distance * 4,
	}
}

// Project converts a world position to screen coordinates plus a perspective
// scale factor for sizing. ok is false when the point sits behind the camera.
func (c *Camera) Project(p swarm.Vec3) (sx, sy, scale float32, ok bool) {
	// Rotate the world by -yaw around Y, then -pitch around X, so the camera
	// looks down the +Z axis from z = -Distance.
	sinY := float32(math.Sin(float64(c.Yaw)))
	cosY := float32(math.Cos(float64(c.Yaw)))
	x := p.X*cosY - p.Z*sinY
	z := p.X*sinY + p.Z*cosY

	sinP := float32(math.Sin(float64(c.Pitch)))
	cosP := float32(math.Cos(float64(c.Pitch)))
	y := p.Y*cosP - z*sinP
	z = p.Y*sinP + z*cosP

	depth := z + c.Distance
	if depth <= 0.01 {
		return 0, 0, 0, false
	}

	scale = c.Focal / depth
	sx = c.ViewportW/2 + x*scale
	sy = c.ViewportH/2 - y*scale
	return sx, sy, scale, true
}

// Orbit adjusts yaw and pitch by the given deltas, keeping pitch shy of the
// poles so the view never flips.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = clamp(c.Pitch+dPitch, -1.4, 1.4)
}

// Dolly multiplies the orbit distance by factor, clamped to the limits.
func (c *Camera) Dolly(factor float32) {
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Resize updates viewport dimensions, keeping the field of view steady.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.Focal *= viewportH / c.ViewportH
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to the default orientation.
func (c *Camera) Reset(distance float32) {
	c.Distance = distance
	c.Yaw = 0
	c.Pitch = 0
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
