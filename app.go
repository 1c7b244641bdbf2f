package main

import (
	"context"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/solenne/murmur/camera"
	"github.com/solenne/murmur/config"
	"github.com/solenne/murmur/engine"
	"github.com/solenne/murmur/record"
	"github.com/solenne/murmur/renderer"
	"github.com/solenne/murmur/swarm"
	"github.com/solenne/murmur/telemetry"
	"github.com/solenne/murmur/ui"
)

const controlsLegend = "1-4: shape | R: record | Space: pause | C: reset view | Right-drag: orbit | Wheel: zoom"

// appOptions configures the windowed application.
type appOptions struct {
	Seed      int64
	Uploader  record.Uploader
	Collector *telemetry.Collector
	Output    *telemetry.OutputManager
	LogStats  bool
}

// app owns the window, the engine, and the overlay surfaces.
type app struct {
	cfg *config.Config
	eng *engine.Engine
	cam *camera.Camera

	points *renderer.Points
	hud    *ui.HUD
	panel  *ui.Panel

	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool

	paused  bool
	capture *renderer.ScreenCapture

	homeDistance float32
}

// newApp opens the window and wires the renderer into the engine.
func newApp(cfg *config.Config, opts appOptions) (*app, error) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "murmur")
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	distance := float32(cfg.Swarm.Bound) * 2.5
	cam := camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), distance)

	a := &app{
		cfg:          cfg,
		cam:          cam,
		points:       renderer.NewPoints(cam, int32(cfg.Screen.Width), int32(cfg.Screen.Height)),
		hud:          ui.NewHUD(),
		panel:        ui.NewPanel(float32(cfg.Screen.Width)-130, 10),
		collector:    opts.Collector,
		output:       opts.Output,
		logStats:     opts.LogStats,
		homeDistance: distance,
	}

	eng, err := engine.New(cfg, engine.Options{
		Seed:     opts.Seed,
		Sink:     a.points,
		Uploader: opts.Uploader,
		Capture: func() record.CaptureSource {
			a.capture = renderer.NewScreenCapture(
				time.Duration(cfg.Record.CaptureInterval*float64(time.Second)),
				cfg.Record.CompositeBackground,
				a.points.Layer(),
			)
			return a.capture
		},
	})
	if err != nil {
		rl.CloseWindow()
		return nil, err
	}
	a.eng = eng

	return a, nil
}

func (a *app) engine() *engine.Engine { return a.eng }

// run executes the render loop until the window closes, the context ends, or
// maxFrames is reached.
func (a *app) run(ctx context.Context, maxFrames int) {
	for frame := 0; !rl.WindowShouldClose() && ctx.Err() == nil; frame++ {
		if maxFrames > 0 && frame >= maxFrames {
			return
		}
		a.frame(time.Now())
	}
}

// frame renders one frame: input, engine step, blit, overlays, capture,
// telemetry.
func (a *app) frame(now time.Time) {
	dt := rl.GetFrameTime()

	if rl.IsWindowResized() {
		w := int32(rl.GetScreenWidth())
		h := int32(rl.GetScreenHeight())
		a.cam.Resize(float32(w), float32(h))
		a.points.Resize(w, h)
	}

	a.handleInput()

	if !a.paused {
		a.eng.Step(dt, now)
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	a.points.Blit()
	a.drawOverlays()
	rl.EndDrawing()

	if a.capture != nil {
		a.capture.Grab(now)
	}

	a.recordStats(dt, now)
}

// handleInput applies keyboard and mouse controls.
func (a *app) handleInput() {
	shapes := swarm.Shapes()
	shapeKeys := []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour}
	for i, key := range shapeKeys {
		if i < len(shapes) && rl.IsKeyPressed(key) {
			if err := a.eng.SelectShape(shapes[i].String()); err != nil {
				slog.Warn("shape select", "error", err)
			}
		}
	}

	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.eng.ToggleRecording(); err != nil {
			slog.Warn("recording toggle", "error", err)
		}
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.cam.Reset(a.homeDistance)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		a.cam.Orbit(delta.X*0.005, delta.Y*0.005)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.cam.Dolly(1 - wheel*0.08)
	}
}

// drawOverlays renders the HUD and the control panel, applying panel actions.
func (a *app) drawOverlays() {
	session := a.eng.Session()
	field := a.eng.Field()

	a.hud.Draw(ui.HUDData{
		Shape:        field.Target().String(),
		Morphing:     field.Morphing(),
		MorphFactor:  field.Factor(),
		Spread:       a.eng.Controls().Spread,
		Elapsed:      a.eng.Elapsed(),
		FPS:          rl.GetFPS(),
		Particles:    a.cfg.Swarm.Count,
		Session:      session.Status().String(),
		LastError:    session.LastError(),
		Paused:       a.paused,
		ScreenHeight: int32(rl.GetScreenHeight()),
	})
	a.hud.DrawControls(int32(rl.GetScreenHeight()), controlsLegend)

	names := make([]string, len(swarm.Shapes()))
	for i, s := range swarm.Shapes() {
		names[i] = s.String()
	}
	status := session.Status()
	actions := a.panel.Draw(ui.PanelState{
		Shapes:    names,
		Current:   field.Target().String(),
		Spread:    a.eng.Controls().Spread,
		SpreadMin: float32(a.cfg.Motion.SpreadMin),
		SpreadMax: float32(a.cfg.Motion.SpreadMax),
		Recording: status == record.StatusRecording,
		CanRecord: status != record.StatusUploading,
	})

	if actions.Shape != "" {
		if err := a.eng.SelectShape(actions.Shape); err != nil {
			slog.Warn("shape select", "error", err)
		}
	}
	if actions.SpreadChanged {
		a.eng.Controls().Spread = actions.Spread
	}
	if actions.ToggleRecord {
		if err := a.eng.ToggleRecording(); err != nil {
			slog.Warn("recording toggle", "error", err)
		}
	}
}

// recordStats feeds the telemetry collector and flushes finished windows.
func (a *app) recordStats(dt float32, now time.Time) {
	pinches, swipes := a.eng.TakeGestureCounts()
	stats, ok := a.collector.Record(telemetry.Sample{
		FrameDur:    time.Duration(float64(dt) * float64(time.Second)),
		Elapsed:     a.eng.Elapsed(),
		MorphFactor: a.eng.Field().Factor(),
		Shape:       a.eng.Field().Target().String(),
		Spread:      a.eng.Controls().Spread,
		Pinches:     pinches,
		Swipes:      swipes,
	}, now)
	if !ok {
		return
	}
	if a.logStats {
		stats.LogStats()
	}
	if err := a.output.WriteStats(stats); err != nil {
		slog.Warn("stats write failed", "error", err)
	}
}

// unload releases window resources.
func (a *app) unload() {
	a.points.Unload()
	rl.CloseWindow()
}
