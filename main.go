package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/liquid/config"
	"github.com/pthm-cable/liquid/sim"
	"github.com/pthm-cable/liquid/telemetry"
	"github.com/pthm-cable/liquid/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshots (empty = <output-dir>/snapshots)")
	resume := flag.String("resume", "", "Snapshot file to resume from")
	seed := flag.Int64("seed", 0, "RNG seed for emitter jitter (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	var resumeFrom *telemetry.Snapshot
	if *resume != "" {
		snap, err := telemetry.LoadSnapshot(*resume)
		if err != nil {
			slog.Error("failed to load snapshot", "path", *resume, "error", err)
			os.Exit(1)
		}
		resumeFrom = snap
	}

	opts := sim.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		SnapshotDir:    *snapshotDir,
		StepsPerUpdate: *stepsPerUpdate,
		Resume:         resumeFrom,
	}

	if *headless {
		os.Exit(runHeadless(opts, *maxTicks))
	}
	os.Exit(runWindowed(cfg, opts, *maxTicks))
}

// runHeadless steps the simulation without raylib and returns the exit code.
func runHeadless(opts sim.Options, maxTicks int) int {
	s, err := sim.New(opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		return 1
	}
	defer s.Close()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for {
		if err := s.UpdateHeadless(); err != nil {
			slog.Error("simulation step failed", "tick", s.Tick(), "error", err)
			return 1
		}
		if maxTicks > 0 && int(s.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", s.Tick(), "particles", s.Particles().NumParticles())
			return 0
		}
	}
}

// runWindowed opens a window and runs the viewer until it is closed.
func runWindowed(cfg *config.Config, opts sim.Options, maxTicks int) int {
	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(w, h, "Liquid")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	// Escape deselects in the inspector instead of closing the window
	rl.SetExitKey(0)

	v := viewer.New(w, h)
	opts.StatsCallback = v.StatsSink()
	s, err := sim.New(opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		return 1
	}
	defer s.Close()
	v.Attach(s)

	for !rl.WindowShouldClose() {
		if err := v.Update(); err != nil {
			slog.Error("simulation step failed", "tick", s.Tick(), "error", err)
			return 1
		}
		v.Draw()

		if maxTicks > 0 && int(s.Tick()) >= maxTicks {
			break
		}
	}
	return 0
}

// parseLevel maps a -log-level value to a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
