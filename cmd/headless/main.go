package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/quadsim/pkg/game"
	"github.com/cbodonnell/quadsim/pkg/game/constants"
	"github.com/cbodonnell/quadsim/pkg/game/types"
	"github.com/cbodonnell/quadsim/pkg/log"
)

func main() {
	var cfg game.Config
	cfg.RegisterFlags(flag.CommandLine)
	ticks := flag.Uint64("ticks", 0, "Number of ticks to run; 0 runs until interrupted")
	interval := flag.Duration("interval", time.Second/time.Duration(constants.TicksPerSecond), "Time between ticks")
	orbit := flag.Float64("orbit", 4, "Seconds per player orbit around the arena center; 0 keeps the player still")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	if err := cfg.ResolveSeed(); err != nil {
		panic(fmt.Sprintf("Failed to resolve seed: %v", err))
	}

	simulation, err := game.NewSimulationFromConfig(cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to create simulation: %v", err))
	}

	var path game.PlayerPath
	if *orbit > 0 {
		path = game.OrbitPath(simulation, *orbit)
	}

	var collisions, maxParticles int
	runner := game.NewRunner(game.NewRunnerOptions{
		Simulation:   simulation,
		TickConfig:   cfg.TickConfig(),
		Path:         path,
		LoopInterval: *interval,
		MaxTicks:     *ticks,
		OnFrame: func(f *types.Frame) {
			collisions += len(f.Collisions)
			maxParticles = max(maxParticles, f.Stats.Particles)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting simulation %s with seed %d", simulation.ID(), cfg.Seed)
	start := time.Now()
	if err := runner.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to run simulation: %v", err))
	}
	log.Info("Simulation %s finished after %s: %d collisions, at most %d particles",
		simulation.ID(), time.Since(start).Round(time.Millisecond), collisions, maxParticles)
}
