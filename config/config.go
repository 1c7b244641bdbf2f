// Package config provides configuration loading and access for the engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Swarm      SwarmConfig      `yaml:"swarm"`
	Motion     MotionConfig     `yaml:"motion"`
	Appearance AppearanceConfig `yaml:"appearance"`
	Gesture    GestureConfig    `yaml:"gesture"`
	Record     RecordConfig     `yaml:"record"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SwarmConfig holds particle field parameters.
type SwarmConfig struct {
	Count         int     `yaml:"count"`          // Particle count, fixed for the process lifetime
	Bound         float64 `yaml:"bound"`          // Half-extent of the particle volume in world units
	MorphDuration float64 `yaml:"morph_duration"` // Seconds per shape transition
	InitialShape  string  `yaml:"initial_shape"`
}

// MotionConfig holds displacement model parameters.
type MotionConfig struct {
	Gravity         float64 `yaml:"gravity"`     // Vertical drift per second
	NoiseScale      float64 `yaml:"noise_scale"` // Spatial frequency fed into the simplex field
	NoiseSpeed      float64 `yaml:"noise_speed"` // Temporal frequency of the noise field
	Spread          float64 `yaml:"spread"`      // Initial particle spread
	SpreadMin       float64 `yaml:"spread_min"`
	SpreadMax       float64 `yaml:"spread_max"`
	SpreadStep      float64 `yaml:"spread_step"` // Per-classification step from open/closed hand
	AttractionScale float64 `yaml:"attraction_scale"`
}

// AppearanceConfig holds color and size modulation parameters.
type AppearanceConfig struct {
	BaseSize     float64 `yaml:"base_size"`      // Point size in pixels before pulsing
	HueRate      float64 `yaml:"hue_rate"`       // Hue revolutions per second
	HueIndexStep float64 `yaml:"hue_index_step"` // Per-index hue offset
	PulseRate    float64 `yaml:"pulse_rate"`
	Saturation   float64 `yaml:"saturation"`
	Value        float64 `yaml:"value"`
}

// GestureConfig holds hand gesture recognition thresholds.
type GestureConfig struct {
	PinchThreshold float64 `yaml:"pinch_threshold"` // Normalized planar thumb-to-index distance
	OpenMargin     float64 `yaml:"open_margin"`     // Fingertip mean must sit this far above the wrist
	SwipeThreshold float64 `yaml:"swipe_threshold"` // Normalized horizontal delta per landmark frame
	SwipeCooldown  float64 `yaml:"swipe_cooldown"`  // Seconds of debounce after a swipe fires
	StreamURL      string  `yaml:"stream_url"`
}

// RecordConfig holds session capture and upload parameters.
type RecordConfig struct {
	UploadURL           string  `yaml:"upload_url"`
	UploadTimeout       float64 `yaml:"upload_timeout"`   // Seconds
	CaptureInterval     float64 `yaml:"capture_interval"` // Seconds between captured chunks
	CompositeBackground bool    `yaml:"composite_background"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
