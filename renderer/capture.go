package renderer

import (
	"bytes"
	"image/jpeg"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// captureQuality is the JPEG quality for captured frames. Concatenated JPEG
// frames form a motion-JPEG clip, which is what the session uploads.
const captureQuality = 85

// ScreenCapture grabs the rendered output at a fixed interval and delivers
// each frame as one encoded chunk. It implements record.CaptureSource.
//
// Grab must run on the render thread; Finalize and Chunks are safe from the
// frame loop.
type ScreenCapture struct {
	interval  time.Duration
	composite bool
	layer     rl.RenderTexture2D

	next time.Time
	ch   chan []byte
	done bool
}

// NewScreenCapture creates a capture stream over the particle layer. When
// composite is true, grabs read the full screen including overlays instead.
func NewScreenCapture(interval time.Duration, composite bool, layer rl.RenderTexture2D) *ScreenCapture {
	return &ScreenCapture{
		interval:  interval,
		composite: composite,
		layer:     layer,
		ch:        make(chan []byte, 8),
	}
}

// Chunks returns the encoded chunk delivery channel.
func (s *ScreenCapture) Chunks() <-chan []byte { return s.ch }

// Finalize stops the stream and closes the chunk channel. Idempotent.
func (s *ScreenCapture) Finalize() error {
	if s.done {
		return nil
	}
	s.done = true
	close(s.ch)
	return nil
}

// Grab snapshots the current frame when the capture interval has elapsed.
// Called from the render loop after drawing completes.
func (s *ScreenCapture) Grab(now time.Time) {
	if s.done || now.Before(s.next) {
		return
	}
	s.next = now.Add(s.interval)

	var img *rl.Image
	if s.composite {
		img = rl.LoadImageFromScreen()
	} else {
		img = rl.LoadImageFromTexture(s.layer.Texture)
		// Render textures are stored bottom-up.
		rl.ImageFlipVertical(img)
	}
	frame := img.ToImage()
	rl.UnloadImage(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: captureQuality}); err != nil {
		slog.Warn("capture encode failed", "error", err)
		return
	}

	select {
	case s.ch <- buf.Bytes():
	default:
		slog.Debug("capture chunk dropped", "bytes", buf.Len())
	}
}
