package gesture

import (
	"math/rand"
	"testing"
	"time"

	"github.com/solenne/murmur/swarm"
)

func testConfig() Config {
	return Config{
		PinchThreshold: 0.06,
		OpenMargin:     0.04,
		SwipeThreshold: 0.18,
		SwipeCooldown:  600 * time.Millisecond,
		SpreadMin:      0.2,
		SpreadMax:      3.0,
		SpreadStep:     0.05,
		Bound:          10,
	}
}

func testControls() *swarm.Controls {
	return &swarm.Controls{Spread: 1.0}
}

func newTestRecognizer(c *swarm.Controls) *Recognizer {
	return NewRecognizer(testConfig(), c, rand.New(rand.NewSource(1)))
}

// openHand builds a frame with fingertips well above the wrist (image y grows
// downward) and thumb/index apart.
func openHand(indexX float32) []Landmark {
	lm := make([]Landmark, NumLandmarks)
	for i := range lm {
		lm[i] = Landmark{X: 0.5, Y: 0.6}
	}
	lm[LmWrist] = Landmark{X: 0.5, Y: 0.8}
	lm[LmMiddleMCP] = Landmark{X: 0.5, Y: 0.7}
	for _, tip := range []int{LmThumbTip, LmMiddleTip, LmRingTip, LmPinkyTip} {
		lm[tip] = Landmark{X: 0.4, Y: 0.3}
	}
	lm[LmIndexTip] = Landmark{X: indexX, Y: 0.3}
	return lm
}

// closedFist builds a frame with fingertips at wrist height.
func closedFist() []Landmark {
	lm := make([]Landmark, NumLandmarks)
	for i := range lm {
		lm[i] = Landmark{X: 0.5, Y: 0.8}
	}
	return lm
}

func TestProcessFrame_EmptyFreezesControls(t *testing.T) {
	c := testControls()
	c.Attraction = swarm.Vec3{X: 3, Y: 2, Z: 1}
	r := newTestRecognizer(c)

	r.ProcessFrame(nil, time.Now())

	if c.Spread != 1.0 {
		t.Errorf("spread changed on empty frame: %f", c.Spread)
	}
	if (c.Attraction != swarm.Vec3{X: 3, Y: 2, Z: 1}) {
		t.Errorf("attraction changed on empty frame: %+v", c.Attraction)
	}
}

func TestProcessFrame_EmptyResetsSwipeTracking(t *testing.T) {
	c := testControls()
	r := newTestRecognizer(c)
	var fired int
	r.OnSwipe = func(int) { fired++ }

	now := time.Now()
	r.ProcessFrame(openHand(0.1), now)
	r.ProcessFrame(nil, now.Add(33*time.Millisecond))
	// Without the reset this delta would register as a swipe.
	r.ProcessFrame(openHand(0.9), now.Add(66*time.Millisecond))

	if fired != 0 {
		t.Errorf("swipe fired across a no-hand gap: %d", fired)
	}
}

func TestSpread_ClampedAtBounds(t *testing.T) {
	c := testControls()
	r := newTestRecognizer(c)
	cfg := testConfig()

	now := time.Now()
	// Far more open-hand frames than needed to hit the max.
	for i := 0; i < 200; i++ {
		r.ProcessFrame(openHand(0.5), now)
		if c.Spread > cfg.SpreadMax {
			t.Fatalf("spread %f exceeded max %f", c.Spread, cfg.SpreadMax)
		}
	}
	if c.Spread != cfg.SpreadMax {
		t.Errorf("spread = %f, want max %f", c.Spread, cfg.SpreadMax)
	}

	for i := 0; i < 200; i++ {
		r.ProcessFrame(closedFist(), now)
		if c.Spread < cfg.SpreadMin {
			t.Fatalf("spread %f fell below min %f", c.Spread, cfg.SpreadMin)
		}
	}
	if c.Spread != cfg.SpreadMin {
		t.Errorf("spread = %f, want min %f", c.Spread, cfg.SpreadMin)
	}
}

func TestSwipe_RateLimitedByWallClock(t *testing.T) {
	c := testControls()
	r := newTestRecognizer(c)
	var fired int
	r.OnSwipe = func(int) { fired++ }

	// Synthetic stream: threshold-exceeding deltas every frame for 2 seconds
	// at 60fps. The count is bounded by 2s/cooldown, not by frame count.
	start := time.Now()
	frame := time.Second / 60
	x := float32(0.1)
	for i := 0; i < 120; i++ {
		x = 0.9 - (x - 0.1) // alternate 0.1 <-> 0.9, delta 0.8 every frame
		r.ProcessFrame(openHand(x), start.Add(time.Duration(i)*frame))
	}

	cooldown := testConfig().SwipeCooldown
	maxFires := int(2*time.Second/cooldown) + 1
	if fired > maxFires {
		t.Errorf("swipes = %d, want at most %d over 2s with %v cooldown", fired, maxFires, cooldown)
	}
	if fired == 0 {
		t.Error("expected at least one swipe to fire")
	}
}

func TestSwipe_DirectionFollowsDelta(t *testing.T) {
	c := testControls()
	r := newTestRecognizer(c)
	var dirs []int
	r.OnSwipe = func(d int) { dirs = append(dirs, d) }

	now := time.Now()
	r.ProcessFrame(openHand(0.1), now)
	r.ProcessFrame(openHand(0.9), now.Add(33*time.Millisecond)) // rightward

	now = now.Add(2 * time.Second) // past the cooldown
	r.ProcessFrame(openHand(0.9), now)
	r.ProcessFrame(openHand(0.1), now.Add(33*time.Millisecond)) // leftward

	if len(dirs) != 2 || dirs[0] != 1 || dirs[1] != -1 {
		t.Errorf("directions = %v, want [1 -1]", dirs)
	}
}

func TestPinch_SetsColorOverride(t *testing.T) {
	c := testControls()
	r := newTestRecognizer(c)

	lm := openHand(0.5)
	lm[LmThumbTip] = Landmark{X: 0.5, Y: 0.3}
	lm[LmIndexTip] = Landmark{X: 0.51, Y: 0.3}
	r.ProcessFrame(lm, time.Now())

	if !c.ColorActive {
		t.Error("pinch should activate the color override")
	}
	if c.ColorOverride.A != 255 {
		t.Errorf("override color should be opaque, got %+v", c.ColorOverride)
	}
}

func TestAttraction_UpdatesWheneverHandPresent(t *testing.T) {
	c := testControls()
	r := newTestRecognizer(c)

	// Palm center at frame center maps to the world origin.
	lm := closedFist()
	lm[LmWrist] = Landmark{X: 0.5, Y: 0.5}
	lm[LmMiddleMCP] = Landmark{X: 0.5, Y: 0.5}
	r.ProcessFrame(lm, time.Now())
	if (c.Attraction != swarm.Vec3{}) {
		t.Errorf("centered palm should map to origin, got %+v", c.Attraction)
	}

	// Palm on the left edge of a mirrored frame maps to +X.
	lm[LmWrist] = Landmark{X: 0.0, Y: 0.5}
	lm[LmMiddleMCP] = Landmark{X: 0.0, Y: 0.5}
	r.ProcessFrame(lm, time.Now())
	if c.Attraction.X <= 0 {
		t.Errorf("left-of-frame palm should map to +X (mirrored), got %+v", c.Attraction)
	}
}

func TestOrdering_SwipeBeforeAttraction(t *testing.T) {
	// The attraction write happens after swipe detection inside one frame, so
	// a frame that both swipes and moves the palm leaves the attraction point
	// at the new palm position while the swipe still fires.
	c := testControls()
	r := newTestRecognizer(c)
	fired := false
	r.OnSwipe = func(int) { fired = true }

	now := time.Now()
	r.ProcessFrame(openHand(0.1), now)
	frame := openHand(0.9)
	r.ProcessFrame(frame, now.Add(33*time.Millisecond))

	if !fired {
		t.Fatal("expected swipe to fire")
	}
	// Attraction reflects the latest frame's palm, not the previous one.
	wantX := (0.5 - (frame[LmWrist].X+frame[LmMiddleMCP].X)*0.5) * 2 * testConfig().Bound
	if c.Attraction.X != wantX {
		t.Errorf("attraction X = %f, want %f", c.Attraction.X, wantX)
	}
}
