package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cbodonnell/quadsim/client/terminal"
	"github.com/cbodonnell/quadsim/pkg/game"
	"github.com/cbodonnell/quadsim/pkg/log"
	"github.com/gdamore/tcell/v2"
)

func main() {
	var cfg game.Config
	cfg.RegisterFlags(flag.CommandLine)
	logFile := flag.String("log-file", "quadsim.log", "File to write logs to while the terminal is in use")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	// stdout belongs to the screen
	out, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		panic(fmt.Sprintf("Failed to open log file: %v", err))
	}
	defer out.Close()

	logger := log.New(out, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	if err := cfg.ResolveSeed(); err != nil {
		panic(fmt.Sprintf("Failed to resolve seed: %v", err))
	}

	simulation, err := game.NewSimulationFromConfig(cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to create simulation: %v", err))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		panic(fmt.Sprintf("Failed to create screen: %v", err))
	}
	if err := screen.Init(); err != nil {
		panic(fmt.Sprintf("Failed to initialize screen: %v", err))
	}
	screen.EnableMouse()
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting simulation %s with seed %d", simulation.ID(), cfg.Seed)
	t := terminal.NewTerminal(terminal.NewTerminalOptions{
		Screen:     screen,
		Simulation: simulation,
		TickConfig: cfg.TickConfig(),
	})
	err = t.Run(ctx)
	screen.Fini()
	if err != nil {
		log.Error("Terminal stopped: %v", err)
		os.Exit(1)
	}
}
