// Command oglbx-run parses a DSL script, constructs one city on the
// configured grid, and drives the fixed-timestep tick loop for a fixed
// wall-clock duration. It is a thin driver, not a scenario-construction
// language of its own: anything beyond "load this script and run it"
// belongs in the Construction API, called from Go.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/talgya/openglassbox/internal/config"
	"github.com/talgya/openglassbox/internal/phi"
	"github.com/talgya/openglassbox/internal/simulation"
)

func main() {
	scriptPath := flag.StringP("script", "s", "", "path to a DSL script (required)")
	seconds := flag.Float64P("seconds", "t", 10, "wall-clock seconds to run")
	seed := flag.Int64P("seed", "r", 0, "deterministic RNG seed")
	gridU := flag.Int("grid-u", 32, "grid width in cells")
	gridV := flag.Int("grid-v", 32, "grid height in cells")
	cityName := flag.String("city", "city", "name of the single city to construct")
	flag.Parse()

	color := isatty.IsTerminal(os.Stdout.Fd())
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *scriptPath == "" {
		slog.Error("--script is required")
		os.Exit(1)
	}

	script, err := os.ReadFile(*scriptPath)
	if err != nil {
		slog.Error("failed to read script", "path", *scriptPath, "error", err)
		os.Exit(1)
	}

	cfg := config.Default()
	cfg.Seed = *seed
	cfg.GridU = *gridU
	cfg.GridV = *gridV

	sim := simulation.New(cfg)
	if err := sim.Parse(string(script)); err != nil {
		slog.Error("failed to parse script", "error", err)
		os.Exit(1)
	}

	if _, err := sim.AddCity(*cityName, phi.Vec3{}); err != nil {
		slog.Error("failed to construct city", "error", err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	if color {
		fmt.Printf("\033[1moglbx-run\033[0m: %s loaded, grid %dx%d, seed %d\n", *scriptPath, *gridU, *gridV, *seed)
	} else {
		fmt.Printf("oglbx-run: %s loaded, grid %dx%d, seed %d\n", *scriptPath, *gridU, *gridV, *seed)
	}

	deadline := time.Now().Add(time.Duration(*seconds * float64(time.Second)))
	last := time.Now()
	running := true
	for running && time.Now().Before(deadline) {
		select {
		case sig := <-stop:
			slog.Info("received signal, stopping", "signal", sig)
			running = false
			continue
		default:
		}
		now := time.Now()
		sim.Update(float32(now.Sub(last).Seconds()))
		last = now
		time.Sleep(time.Millisecond)
	}

	slog.Info("simulation finished", "tick", simulation.FormatTick(sim.Tick()))
	fmt.Printf("ran %s, %d unit(s), %d agent(s) live\n",
		simulation.FormatTick(sim.Tick()),
		len(sim.City(*cityName).Units()),
		len(sim.City(*cityName).Agents()),
	)
}
