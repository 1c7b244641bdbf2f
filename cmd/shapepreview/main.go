// Shape template preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/shapepreview
package main

import (
	"fmt"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/solenne/murmur/camera"
	"github.com/solenne/murmur/swarm"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 700
	panelWidth   = windowWidth - previewSize - 30
)

// PreviewParams holds the template parameters under inspection.
type PreviewParams struct {
	Count int
	Bound float32
	Seed  int64
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Shape Template Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := PreviewParams{
		Count: 5000,
		Bound: 12,
		Seed:  42,
	}
	shape := swarm.ShapeHeart

	cam := camera.New(previewSize, windowHeight, params.Bound*2.5)

	points := make([]swarm.Vec3, 0, params.Count)
	regenerate := func() {
		rng := rand.New(rand.NewSource(params.Seed))
		points = points[:0]
		for i := 0; i < params.Count; i++ {
			points = append(points, swarm.Generate(shape, i, params.Count, params.Bound, rng))
		}
	}
	regenerate()

	for !rl.WindowShouldClose() {
		// Slow auto-orbit so depth reads without mouse input.
		cam.Orbit(rl.GetFrameTime()*0.3, 0)
		if rl.IsMouseButtonDown(rl.MouseButtonRight) {
			delta := rl.GetMouseDelta()
			cam.Orbit(delta.X*0.005, delta.Y*0.005)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			cam.Dolly(1 - wheel*0.08)
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		for _, p := range points {
			sx, sy, scale, ok := cam.Project(p)
			if !ok || sx < 0 || sx > previewSize {
				continue
			}
			r := 0.06 * scale
			if r < 1 {
				r = 1
			}
			rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, r, rl.SkyBlue)
		}
		rl.DrawRectangleLines(0, 0, previewSize, windowHeight, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 10)
		panelY := float32(10)

		rl.DrawText("Shape Templates", int32(panelX), int32(panelY), 20, rl.RayWhite)
		panelY += 35

		for _, s := range swarm.Shapes() {
			label := s.String()
			if s == shape {
				label = "> " + label
			}
			if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 28}, label) {
				shape = s
				regenerate()
			}
			panelY += 34
		}
		panelY += 10

		rl.DrawText("Count", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newCount := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"100", "50000",
			float32(params.Count), 100, 50000,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Count), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.RayWhite)
		if int(newCount) != params.Count {
			params.Count = int(newCount)
			regenerate()
		}
		panelY += 35

		rl.DrawText("Bound (half-extent)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newBound := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"4", "40",
			params.Bound, 4, 40,
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.Bound), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.RayWhite)
		if newBound != params.Bound {
			params.Bound = newBound
			regenerate()
		}
		panelY += 35

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 28}, "Reseed") {
			params.Seed++
			regenerate()
		}

		rl.EndDrawing()
	}
}
