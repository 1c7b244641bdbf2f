package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/solenne/murmur/config"
	"github.com/solenne/murmur/engine"
	"github.com/solenne/murmur/gesture"
	"github.com/solenne/murmur/record"
	"github.com/solenne/murmur/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	streamURL := flag.String("stream-url", "", "Landmark stream URL (overrides config)")
	uploadURL := flag.String("upload-url", "", "Clip upload URL (overrides config)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *streamURL != "" {
		cfg.Gesture.StreamURL = *streamURL
	}
	if *uploadURL != "" {
		cfg.Record.UploadURL = *uploadURL
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to initialize output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	uploader := record.NewClient(
		cfg.Record.UploadURL,
		time.Duration(cfg.Record.UploadTimeout*float64(time.Second)),
	)
	collector := telemetry.NewCollector(
		time.Duration(cfg.Telemetry.StatsWindow * float64(time.Second)),
	)
	stream := gesture.NewStream(cfg.Gesture.StreamURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return stream.Run(ctx)
	})

	slog.Info("starting",
		"seed", rngSeed,
		"headless", *headless,
		"particles", cfg.Swarm.Count,
		"shape", cfg.Swarm.InitialShape,
	)

	if *headless {
		eng, err := engine.New(cfg, engine.Options{
			Seed:     rngSeed,
			Uploader: uploader,
		})
		if err != nil {
			slog.Error("failed to build engine", "error", err)
			os.Exit(1)
		}
		eng.AttachLandmarks(stream.Frames())
		runHeadless(ctx, cfg, eng, collector, output, *logStats, *maxFrames)
	} else {
		a, err := newApp(cfg, appOptions{
			Seed:      rngSeed,
			Uploader:  uploader,
			Collector: collector,
			Output:    output,
			LogStats:  *logStats,
		})
		if err != nil {
			slog.Error("failed to build engine", "error", err)
			os.Exit(1)
		}
		a.engine().AttachLandmarks(stream.Frames())
		a.run(ctx, *maxFrames)
		a.unload()
	}

	stop()
	if err := g.Wait(); err != nil {
		slog.Error("landmark stream", "error", err)
	}
}

// runHeadless drives the engine at a fixed timestep without graphics.
func runHeadless(
	ctx context.Context,
	cfg *config.Config,
	eng *engine.Engine,
	collector *telemetry.Collector,
	output *telemetry.OutputManager,
	logStats bool,
	maxFrames int,
) {
	dt := float32(1) / float32(cfg.Screen.TargetFPS)
	step := time.Duration(float64(time.Second) / float64(cfg.Screen.TargetFPS))
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	for frame := 0; maxFrames == 0 || frame < maxFrames; frame++ {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			eng.Step(dt, now)

			pinches, swipes := eng.TakeGestureCounts()
			stats, ok := collector.Record(telemetry.Sample{
				FrameDur:    step,
				Elapsed:     eng.Elapsed(),
				MorphFactor: eng.Field().Factor(),
				Shape:       eng.Field().Target().String(),
				Spread:      eng.Controls().Spread,
				Pinches:     pinches,
				Swipes:      swipes,
			}, now)
			if ok {
				if logStats {
					stats.LogStats()
				}
				if err := output.WriteStats(stats); err != nil {
					slog.Warn("stats write failed", "error", err)
				}
			}
		}
	}
}
