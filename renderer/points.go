// Package renderer draws the swarm with raylib and exposes the rendered layer
// as a capturable stream for the recording session.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/solenne/murmur/camera"
	"github.com/solenne/murmur/engine"
)

const (
	// pointWorldSize converts a particle's size value into world units before
	// perspective scaling.
	pointWorldSize = 0.02

	// minPointRadius keeps distant particles visible as single pixels.
	minPointRadius = 0.5
)

// Points renders each frame's particle stream as perspective-scaled circles
// into an offscreen layer. The layer is blitted to the screen after Present
// and doubles as the capture surface when background compositing is off.
type Points struct {
	cam    *camera.Camera
	target rl.RenderTexture2D
	clear  rl.Color
}

// NewPoints creates a point-cloud renderer with its offscreen layer.
func NewPoints(cam *camera.Camera, width, height int32) *Points {
	return &Points{
		cam:    cam,
		target: rl.LoadRenderTexture(width, height),
		clear:  rl.Color{R: 8, G: 8, B: 14, A: 255},
	}
}

// Present draws the frame into the particle layer.
func (p *Points) Present(f *engine.Frame) {
	rl.BeginTextureMode(p.target)
	rl.ClearBackground(p.clear)

	for i := range f.Pos {
		sx, sy, scale, ok := p.cam.Project(f.Pos[i])
		if !ok {
			continue
		}

		r := f.Size[i] * pointWorldSize * scale
		if r < minPointRadius {
			r = minPointRadius
		}

		c := f.Color[i]
		rl.DrawCircleV(
			rl.Vector2{X: sx, Y: sy},
			r,
			rl.Color{R: c.R, G: c.G, B: c.B, A: c.A},
		)
	}

	rl.EndTextureMode()
}

// Blit copies the particle layer to the screen. Render textures are stored
// bottom-up, so the source rectangle flips vertically.
func (p *Points) Blit() {
	src := rl.Rectangle{
		Width:  float32(p.target.Texture.Width),
		Height: -float32(p.target.Texture.Height),
	}
	rl.DrawTextureRec(p.target.Texture, src, rl.Vector2{}, rl.White)
}

// Layer exposes the offscreen particle layer for capture.
func (p *Points) Layer() rl.RenderTexture2D { return p.target }

// Resize recreates the offscreen layer for a new window size.
func (p *Points) Resize(width, height int32) {
	if p.target.Texture.Width == width && p.target.Texture.Height == height {
		return
	}
	rl.UnloadRenderTexture(p.target)
	p.target = rl.LoadRenderTexture(width, height)
}

// Unload releases GPU resources.
func (p *Points) Unload() {
	rl.UnloadRenderTexture(p.target)
}
