package game

import (
	"context"
	"math"
	"time"

	"github.com/cbodonnell/quadsim/pkg/game/constants"
	"github.com/cbodonnell/quadsim/pkg/game/types"
	"github.com/cbodonnell/quadsim/pkg/kinematic"
	"github.com/cbodonnell/quadsim/pkg/log"
)

// PlayerPath returns where the player should be at the given tick.
type PlayerPath func(tick uint64, elapsed float64) kinematic.Vector

// OrbitPath moves the player around the arena center once every period seconds.
func OrbitPath(s *Simulation, period float64) PlayerPath {
	arena := s.Arena()
	center := arena.Center()
	radius := math.Min(arena.Width, arena.Height) / 3
	return func(_ uint64, elapsed float64) kinematic.Vector {
		theta := 2 * math.Pi * elapsed / period
		return center.Add(kinematic.Vector{X: math.Cos(theta), Y: math.Sin(theta)}.Scale(radius))
	}
}

// Runner drives a Simulation on a fixed interval without a window.
type Runner struct {
	simulation   *Simulation
	tickConfig   TickConfig
	path         PlayerPath
	loopInterval time.Duration
	maxTicks     uint64
	onFrame      func(*types.Frame)
}

// NewRunnerOptions contains options for creating a new Runner.
type NewRunnerOptions struct {
	Simulation *Simulation
	TickConfig TickConfig
	// Path moves the player; it stays at the arena center when nil
	Path PlayerPath
	// LoopInterval is both the ticker period and the simulated time per tick
	LoopInterval time.Duration
	// MaxTicks stops the runner after that many ticks; zero runs until the context is done
	MaxTicks uint64
	// OnFrame is called with every frame before the next tick
	OnFrame func(*types.Frame)
}

func NewRunner(opts NewRunnerOptions) *Runner {
	path := opts.Path
	if path == nil {
		center := opts.Simulation.Arena().Center()
		path = func(uint64, float64) kinematic.Vector { return center }
	}
	return &Runner{
		simulation:   opts.Simulation,
		tickConfig:   opts.TickConfig,
		path:         path,
		loopInterval: opts.LoopInterval,
		maxTicks:     opts.MaxTicks,
		onFrame:      opts.OnFrame,
	}
}

// Start runs the loop until the context is done or MaxTicks is reached.
func (r *Runner) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.loopInterval)
	defer ticker.Stop()

	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			ticks++
			r.tick(ticks)
			if r.maxTicks > 0 && ticks >= r.maxTicks {
				log.Info("Runner for simulation %s finished after %d ticks", r.simulation.ID(), ticks)
				return nil
			}
		}
	}
}

// tick runs one iteration of the loop.
func (r *Runner) tick(ticks uint64) {
	dt := r.loopInterval.Seconds()
	elapsed := float64(ticks) * dt
	start := time.Now()
	frame, err := r.simulation.Tick(TickInput{
		DeltaTime:    dt,
		PlayerTarget: r.path(ticks, elapsed),
	}, r.tickConfig)
	if err != nil {
		log.Error("Failed to run simulation tick: %v", err)
		return
	}
	if r.onFrame != nil {
		r.onFrame(frame)
	}
	if ticks%constants.StatsLogInterval == 0 {
		log.Info("Tick %d took %s: %d particles, %d nodes, depth %d, %d depth limit hits, %d candidates, %d collisions",
			frame.Tick, time.Since(start), frame.Stats.Particles, frame.Stats.Tree.Nodes, frame.Stats.Tree.MaxDepth,
			frame.Stats.Tree.DepthLimitHits, frame.Stats.Candidates, len(frame.Collisions))
	}
}
