package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/needles/app"
	"github.com/pthm-cable/needles/config"
	"github.com/pthm-cable/needles/game"
	"github.com/pthm-cable/needles/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("frames", 0, "Stop after N frames (0 = unlimited)")
	reducedMotion := flag.Bool("reduced-motion", false, "Behave as if the user prefers reduced motion")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	outputManager, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer outputManager.Close()
	if err := outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	opts := game.Options{
		LogStats:      *logStats,
		OutputManager: outputManager,
	}

	if *headless {
		runHeadless(cfg, opts, rngSeed, *maxFrames, *reducedMotion)
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Needles")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := app.NewGame(cfg, app.Options{
		Seed:          rngSeed,
		ReducedMotion: *reducedMotion,
		Telemetry:     opts,
	})
	if err != nil {
		slog.Error("failed to create window host", "error", err)
		return
	}
	defer g.Unload()

	frames := 0
	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		frames++
		if *maxFrames > 0 && frames >= *maxFrames {
			break
		}
	}
}

// runHeadless drives the field with a scripted visitor until the frame limit or an interrupt.
func runHeadless(cfg *config.Config, opts game.Options, seed int64, frames int, reducedMotion bool) {
	h, err := game.NewHeadless(cfg, opts, seed, reducedMotion)
	if err != nil {
		slog.Error("failed to create headless host", "error", err)
		return
	}
	if err := h.Start(); err != nil {
		// Decorative layer: no field is not a failure
		slog.Info("field not started", "reason", err)
		return
	}

	slog.Info("starting headless run",
		"seed", seed,
		"frames", frames,
		"needles", h.Controller().Field().Len(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := h.Run(ctx, frames); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("headless run failed", "error", err)
	}
}
