// Package telemetry aggregates per-frame measurements into windowed stats
// records for logging and CSV output.
package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"
)

// WindowStats is one aggregated window, flat for CSV export.
type WindowStats struct {
	WindowEnd   float64 `csv:"window_end_s"`
	Frames      int     `csv:"frames"`
	FPS         float64 `csv:"fps"`
	FrameMsMean float64 `csv:"frame_ms_mean"`
	FrameMsStd  float64 `csv:"frame_ms_std"`
	MorphFactor float64 `csv:"morph_factor"`
	Shape       string  `csv:"shape"`
	Spread      float64 `csv:"spread"`
	Pinches     int     `csv:"pinches"`
	Swipes      int     `csv:"swipes"`
}

// Sample is one frame's measurements.
type Sample struct {
	FrameDur    time.Duration
	Elapsed     float32
	MorphFactor float32
	Shape       string
	Spread      float32
	Pinches     int
	Swipes      int
}

// Collector accumulates frame samples and emits a WindowStats record once per
// window. Called from the frame loop only.
type Collector struct {
	window time.Duration

	frameMs []float64
	pinches int
	swipes  int
	last    Sample

	windowStart time.Time
}

// NewCollector creates a collector that aggregates over the given window.
func NewCollector(window time.Duration) *Collector {
	if window <= 0 {
		window = 5 * time.Second
	}
	return &Collector{window: window}
}

// Record adds one frame sample. When the window has elapsed it returns the
// aggregated stats and true, then starts a fresh window.
func (c *Collector) Record(s Sample, now time.Time) (WindowStats, bool) {
	if c.windowStart.IsZero() {
		c.windowStart = now
	}

	c.frameMs = append(c.frameMs, float64(s.FrameDur)/float64(time.Millisecond))
	c.pinches += s.Pinches
	c.swipes += s.Swipes
	c.last = s

	if now.Sub(c.windowStart) < c.window {
		return WindowStats{}, false
	}

	elapsed := now.Sub(c.windowStart).Seconds()
	stats := WindowStats{
		WindowEnd:   float64(c.last.Elapsed),
		Frames:      len(c.frameMs),
		FPS:         float64(len(c.frameMs)) / elapsed,
		FrameMsMean: stat.Mean(c.frameMs, nil),
		FrameMsStd:  stat.StdDev(c.frameMs, nil),
		MorphFactor: float64(c.last.MorphFactor),
		Shape:       c.last.Shape,
		Spread:      float64(c.last.Spread),
		Pinches:     c.pinches,
		Swipes:      c.swipes,
	}

	c.frameMs = c.frameMs[:0]
	c.pinches = 0
	c.swipes = 0
	c.windowStart = now

	return stats, true
}

// LogStats logs a window record as structured fields.
func (s WindowStats) LogStats() {
	slog.Info("window",
		"t", int(s.WindowEnd),
		"fps", int(s.FPS),
		"frame_ms", float64(int(s.FrameMsMean*100))/100,
		"shape", s.Shape,
		"morph", float64(int(s.MorphFactor*100))/100,
		"spread", float64(int(s.Spread*100))/100,
		"pinches", s.Pinches,
		"swipes", s.Swipes,
	)
}
