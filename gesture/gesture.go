// Package gesture converts streamed hand-landmark frames into control signals
// for the particle engine: spread, attraction point, color, and shape swipes.
package gesture

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/solenne/murmur/swarm"
)

// Landmark is a single tracked hand keypoint in normalized input-frame
// coordinates: x,y in [0,1] with y growing downward, z roughly metric depth.
type Landmark struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Hand keypoint indices, following the usual 21-point hand topology.
const (
	LmWrist     = 0
	LmThumbTip  = 4
	LmIndexTip  = 8
	LmMiddleMCP = 9
	LmMiddleTip = 12
	LmRingTip   = 16
	LmPinkyTip  = 20

	NumLandmarks = 21
)

var fingertips = []int{LmThumbTip, LmIndexTip, LmMiddleTip, LmRingTip, LmPinkyTip}

// Config holds the recognizer thresholds.
type Config struct {
	PinchThreshold float32       // planar thumb-to-index distance
	OpenMargin     float32       // fingertip mean must sit this far above the wrist
	SwipeThreshold float32       // horizontal index-tip delta per frame
	SwipeCooldown  time.Duration // debounce window after a swipe fires
	SpreadMin      float32
	SpreadMax      float32
	SpreadStep     float32
	Bound          float32 // world half-extent the attraction point maps into
}

// Recognizer consumes one landmark frame at a time and writes the control
// parameters it owns: Spread, Attraction, and the color override. Shape swipes
// are reported through OnSwipe rather than written directly, since shape
// selection belongs to the morph controller.
type Recognizer struct {
	cfg      Config
	controls *swarm.Controls
	rng      *rand.Rand

	// OnSwipe is invoked with the next/previous direction (+1/-1) when a
	// debounced swipe fires. May be nil.
	OnSwipe func(direction int)

	// Swipe state: previous horizontal index-tip position (nullable) and the
	// wall-clock instant the debounce window ends.
	prevX    float32
	hasPrevX bool
	quietEnd time.Time

	// Counters for telemetry.
	pinches int
	swipes  int
}

// NewRecognizer creates a gesture recognizer writing into controls.
func NewRecognizer(cfg Config, controls *swarm.Controls, rng *rand.Rand) *Recognizer {
	return &Recognizer{
		cfg:      cfg,
		controls: controls,
		rng:      rng,
	}
}

// ProcessFrame consumes one hand-landmark frame. An empty frame means no hand
// was detected: swipe tracking resets but the control parameters freeze at
// their last values. Within a frame the fixed order is pinch, open/closed,
// swipe, attraction point.
func (r *Recognizer) ProcessFrame(landmarks []Landmark, now time.Time) {
	if len(landmarks) < NumLandmarks {
		r.hasPrevX = false
		return
	}

	r.detectPinch(landmarks)
	r.classifySpread(landmarks)
	r.detectSwipe(landmarks, now)
	r.updateAttraction(landmarks)
}

// detectPinch sets a fresh color override when thumb and index tips touch.
func (r *Recognizer) detectPinch(lm []Landmark) {
	dx := lm[LmThumbTip].X - lm[LmIndexTip].X
	dy := lm[LmThumbTip].Y - lm[LmIndexTip].Y
	dist := float32(math.Hypot(float64(dx), float64(dy)))
	if dist >= r.cfg.PinchThreshold {
		return
	}

	// Any distinct-looking color works; a random fully-saturated hue reads well.
	r.controls.ColorOverride = swarm.HSV(r.rng.Float32(), 1, 1)
	r.controls.ColorActive = true
	r.pinches++
}

// classifySpread widens the swarm for an open hand and tightens it for a
// fist, stepping toward the configured bounds and clamping every update.
func (r *Recognizer) classifySpread(lm []Landmark) {
	ys := make([]float64, len(fingertips))
	for i, tip := range fingertips {
		ys[i] = float64(lm[tip].Y)
	}
	tipMean := stat.Mean(ys, nil)

	// Image y grows downward, so "above the wrist" means a smaller y.
	open := tipMean < float64(lm[LmWrist].Y-r.cfg.OpenMargin)

	spread := r.controls.Spread
	if open {
		spread += r.cfg.SpreadStep
	} else {
		spread -= r.cfg.SpreadStep
	}
	if spread < r.cfg.SpreadMin {
		spread = r.cfg.SpreadMin
	}
	if spread > r.cfg.SpreadMax {
		spread = r.cfg.SpreadMax
	}
	r.controls.Spread = spread
}

// detectSwipe fires a shape-change request when the index tip moves fast
// enough horizontally. The debounce is wall-clock based so the rate limit
// holds under variable frame rates.
func (r *Recognizer) detectSwipe(lm []Landmark, now time.Time) {
	x := lm[LmIndexTip].X
	defer func() {
		r.prevX = x
		r.hasPrevX = true
	}()

	if !r.hasPrevX {
		return
	}
	delta := x - r.prevX
	if abs(delta) < r.cfg.SwipeThreshold || now.Before(r.quietEnd) {
		return
	}

	dir := 1
	if delta < 0 {
		dir = -1
	}
	r.quietEnd = now.Add(r.cfg.SwipeCooldown)
	r.swipes++
	if r.OnSwipe != nil {
		r.OnSwipe(dir)
	}
}

// updateAttraction maps the palm center into world coordinates. This runs
// unconditionally whenever a hand is present, after any swipe, so a stale
// frame can never undo a fresh shape change.
func (r *Recognizer) updateAttraction(lm []Landmark) {
	// Palm center: midpoint of the wrist and the middle-finger knuckle.
	cx := (lm[LmWrist].X + lm[LmMiddleMCP].X) * 0.5
	cy := (lm[LmWrist].Y + lm[LmMiddleMCP].Y) * 0.5
	cz := (lm[LmWrist].Z + lm[LmMiddleMCP].Z) * 0.5

	b := r.cfg.Bound
	r.controls.Attraction = swarm.Vec3{
		X: (0.5 - cx) * 2 * b, // mirror horizontally: camera faces the user
		Y: (0.5 - cy) * 2 * b, // image y grows down, world y grows up
		Z: -cz * b,
	}
}

// TakeCounts returns and resets the pinch/swipe counters for telemetry.
func (r *Recognizer) TakeCounts() (pinches, swipes int) {
	pinches, swipes = r.pinches, r.swipes
	r.pinches, r.swipes = 0, 0
	return pinches, swipes
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
