package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	clientgame "github.com/cbodonnell/quadsim/client/game"
	"github.com/cbodonnell/quadsim/pkg/game"
	"github.com/cbodonnell/quadsim/pkg/game/constants"
	"github.com/cbodonnell/quadsim/pkg/log"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var cfg game.Config
	cfg.RegisterFlags(flag.CommandLine)
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
	log.Info("Starting simulation %s with seed %d", simulation.ID(), cfg.Seed)

	g, err := clientgame.NewGame(clientgame.NewGameOptions{
		Simulation: simulation,
		TickConfig: cfg.TickConfig(),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game: %v", err))
	}

	ebiten.SetTPS(constants.TicksPerSecond)
	ebiten.SetWindowSize(int(cfg.Width), int(cfg.Height))
	ebiten.SetWindowTitle("Quadsim")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}
}
