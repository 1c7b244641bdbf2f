package swarm

// Controls is the shared set of live-tunable parameters read by the
// displacement kernel every frame. It is passed by reference into each
// component's per-frame update rather than living as package globals.
//
// Writer discipline (one writer per field, everyone else reads):
//   - Attraction, ColorOverride/ColorActive: gesture recognizer
//   - Spread: gesture recognizer, or the control panel on frames with no hand
//   - Gravity, NoiseScale, NoiseSpeed, AttractionScale: config at startup
//
// The frame loop and the landmark delivery path are serialized onto the same
// execution context, so no locking is needed.
type Controls struct {
	Gravity         float32
	NoiseScale      float32
	NoiseSpeed      float32
	Spread          float32
	AttractionScale float32
	Attraction      Vec3

	ColorOverride RGBA
	ColorActive   bool
}
