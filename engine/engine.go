// Package engine drives the per-frame choreography: gesture input, morph
// progression, displacement evaluation, and the recording session, all
// serialized onto one frame-loop context.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/solenne/murmur/config"
	"github.com/solenne/murmur/gesture"
	"github.com/solenne/murmur/record"
	"github.com/solenne/murmur/swarm"
)

// FrameSink consumes one complete rendered frame per Step: a per-particle
// position/color/size stream plus global uniforms.
type FrameSink interface {
	Present(f *Frame)
}

// Frame is the per-frame output handed to the rendering collaborator. The
// slices are reused between frames; sinks must not retain them.
type Frame struct {
	Pos   []swarm.Vec3
	Color []swarm.RGBA
	Size  []float32

	Elapsed     float32
	MorphFactor float32
}

// CaptureProvider hands out the renderer's capturable output stream, or nil
// when no stream is available (for example in headless mode).
type CaptureProvider func() record.CaptureSource

// Engine owns the frame loop state. External deliveries (landmark frames,
// encoded chunks, upload completions) arrive through channels drained once
// per Step, so nothing runs re-entrantly mid-frame and no field needs a lock.
type Engine struct {
	controls *swarm.Controls
	field    *swarm.Field
	disp     *swarm.Displacer
	gest     *gesture.Recognizer
	session  *record.Session

	landmarks <-chan []gesture.Landmark
	capture   CaptureProvider
	active    record.CaptureSource // capture stream of the running session

	sink    FrameSink
	frame   Frame
	elapsed float32

	// Shape requests from swipes and the control surface, applied at the
	// frame boundary.
	pendingShapes []swarm.Shape
}

// Options configures engine construction.
type Options struct {
	Seed     int64
	Sink     FrameSink
	Uploader record.Uploader
	Capture  CaptureProvider
}

// New builds an engine from the loaded configuration.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	initial, err := swarm.ParseShape(cfg.Swarm.InitialShape)
	if err != nil {
		return nil, fmt.Errorf("initial shape: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	bound := float32(cfg.Swarm.Bound)

	controls := &swarm.Controls{
		Gravity:         float32(cfg.Motion.Gravity),
		NoiseScale:      float32(cfg.Motion.NoiseScale),
		NoiseSpeed:      float32(cfg.Motion.NoiseSpeed),
		Spread:          float32(cfg.Motion.Spread),
		AttractionScale: float32(cfg.Motion.AttractionScale),
	}

	field := swarm.NewField(
		cfg.Swarm.Count,
		bound,
		float32(cfg.Swarm.MorphDuration),
		initial,
		rng,
	)

	disp := swarm.NewDisplacer(opts.Seed, swarm.Appearance{
		BaseSize:     float32(cfg.Appearance.BaseSize),
		HueRate:      float32(cfg.Appearance.HueRate),
		HueIndexStep: float32(cfg.Appearance.HueIndexStep),
		PulseRate:    float32(cfg.Appearance.PulseRate),
		Saturation:   float32(cfg.Appearance.Saturation),
		Value:        float32(cfg.Appearance.Value),
	})

	gest := gesture.NewRecognizer(gesture.Config{
		PinchThreshold: float32(cfg.Gesture.PinchThreshold),
		OpenMargin:     float32(cfg.Gesture.OpenMargin),
		SwipeThreshold: float32(cfg.Gesture.SwipeThreshold),
		SwipeCooldown:  time.Duration(cfg.Gesture.SwipeCooldown * float64(time.Second)),
		SpreadMin:      float32(cfg.Motion.SpreadMin),
		SpreadMax:      float32(cfg.Motion.SpreadMax),
		SpreadStep:     float32(cfg.Motion.SpreadStep),
		Bound:          bound,
	}, controls, rng)

	e := &Engine{
		controls: controls,
		field:    field,
		disp:     disp,
		gest:     gest,
		session:  record.NewSession(opts.Uploader),
		capture:  opts.Capture,
		sink:     opts.Sink,
		frame: Frame{
			Pos:   make([]swarm.Vec3, cfg.Swarm.Count),
			Color: make([]swarm.RGBA, cfg.Swarm.Count),
			Size:  make([]float32, cfg.Swarm.Count),
		},
	}

	// Swipes cycle through the shape ordering relative to where the field is
	// already heading.
	gest.OnSwipe = func(dir int) {
		next := e.field.Target().Next()
		if dir < 0 {
			next = e.field.Target().Prev()
		}
		e.pendingShapes = append(e.pendingShapes, next)
		slog.Debug("swipe", "direction", dir, "shape", next.String())
	}

	return e, nil
}

// AttachLandmarks connects the hand-landmark delivery channel. Frames are
// drained at the next frame boundary, never mid-frame.
func (e *Engine) AttachLandmarks(frames <-chan []gesture.Landmark) {
	e.landmarks = frames
}

// SelectShape requests a morph toward the named shape. Unknown names are
// rejected here and never reach the morph state.
func (e *Engine) SelectShape(name string) error {
	shape, err := swarm.ParseShape(name)
	if err != nil {
		return err
	}
	e.pendingShapes = append(e.pendingShapes, shape)
	return nil
}

// ToggleRecording starts or stops the recording session. The returned error
// reports invalid-state conditions; it never crashes the loop.
func (e *Engine) ToggleRecording() error {
	switch e.session.Status() {
	case record.StatusRecording:
		err := e.session.Stop()
		e.active = nil
		return err
	case record.StatusIdle, record.StatusError:
		var src record.CaptureSource
		if e.capture != nil {
			src = e.capture()
		}
		if err := e.session.Start(src); err != nil {
			return err
		}
		e.active = src
		return nil
	}
	return fmt.Errorf("recording busy: %s", e.session.Status())
}

// Session exposes the recording session for status display.
func (e *Engine) Session() *record.Session { return e.session }

// Controls exposes the shared control parameters for display.
func (e *Engine) Controls() *swarm.Controls { return e.controls }

// Field exposes the morphing particle field for display.
func (e *Engine) Field() *swarm.Field { return e.field }

// Elapsed returns seconds since animation start. Morphing never resets it.
func (e *Engine) Elapsed() float32 { return e.elapsed }

// TakeGestureCounts drains the recognizer's telemetry counters.
func (e *Engine) TakeGestureCounts() (pinches, swipes int) {
	return e.gest.TakeCounts()
}

// Step advances the engine by dt seconds: drain deliveries, run gestures,
// advance the morph, evaluate every particle, present the frame, and pump the
// recording session.
func (e *Engine) Step(dt float32, now time.Time) {
	e.drainLandmarks(now)
	e.applyShapeRequests()

	e.field.Advance(dt)
	e.elapsed += dt

	factor := e.field.Factor()
	for i := 0; i < e.field.Count(); i++ {
		pos, color, size := e.disp.Eval(e.field.Base(i), i, e.elapsed, e.controls)
		e.frame.Pos[i] = pos
		e.frame.Color[i] = color
		e.frame.Size[i] = size
	}
	e.frame.Elapsed = e.elapsed
	e.frame.MorphFactor = factor

	if e.sink != nil {
		e.sink.Present(&e.frame)
	}

	e.pumpChunks()
	e.session.Poll()
}

// drainLandmarks processes every landmark frame queued since the last Step.
// Landmark frames typically arrive slower than the render rate; between
// deliveries the control parameters simply hold their last values.
func (e *Engine) drainLandmarks(now time.Time) {
	if e.landmarks == nil {
		return
	}
	for {
		select {
		case frame := <-e.landmarks:
			e.gest.ProcessFrame(frame, now)
		default:
			return
		}
	}
}

// applyShapeRequests forwards queued shape changes to the morph controller.
func (e *Engine) applyShapeRequests() {
	for _, shape := range e.pendingShapes {
		e.field.Morph(shape)
	}
	e.pendingShapes = e.pendingShapes[:0]
}

// pumpChunks appends any encoded chunks the capture stream delivered this
// frame. No backpressure is needed: production rate is bounded by the
// encoder.
func (e *Engine) pumpChunks() {
	if e.active == nil {
		return
	}
	for {
		select {
		case chunk, ok := <-e.active.Chunks():
			if !ok {
				e.active = nil
				return
			}
			e.session.Append(chunk)
		default:
			return
		}
	}
}
