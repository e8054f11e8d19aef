package game

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cbodonnell/quadsim/pkg/collision"
	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/game/constants"
	"github.com/cbodonnell/quadsim/pkg/quadtree"
)

const (
	// SeedEnvVar overrides the random seed when set
	SeedEnvVar = "QUADSIM_SEED"

	BroadPhaseQuadtree = "quadtree"
	BroadPhaseGrid     = "grid"
)

var ErrUnknownBroadPhase = errors.New("unknown broad phase")

// Config holds the settings shared by every entrypoint.
type Config struct {
	LogLevel     string
	Width        float64
	Height       float64
	Capacity     int
	MaxDepth     int
	CellSize     int
	SpawnRate    uint
	Boundary     string
	BroadPhase   string
	PlayerRadius float64
	Bounce       bool
	Debug        bool
	Seed         int64
}

// RegisterFlags binds the shared settings to fs with their defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.LogLevel, "log-level", "info", "Log level")
	fs.Float64Var(&c.Width, "width", constants.ArenaWidth, "Arena width")
	fs.Float64Var(&c.Height, "height", constants.ArenaHeight, "Arena height")
	fs.IntVar(&c.Capacity, "capacity", constants.NodeCapacity, "Quadtree node capacity")
	fs.IntVar(&c.MaxDepth, "max-depth", constants.NodeMaxDepth, "Quadtree maximum depth")
	fs.IntVar(&c.CellSize, "cell-size", constants.GridCellSize, "Grid broad phase cell size")
	fs.UintVar(&c.SpawnRate, "spawn-rate", uint(constants.DefaultSpawnRate), "Particles spawned per second")
	fs.StringVar(&c.Boundary, "boundary", entity.BoundaryDespawn.String(), "Arena edge policy (bounce or despawn)")
	fs.StringVar(&c.BroadPhase, "broadphase", BroadPhaseQuadtree, "Broad phase (quadtree or grid)")
	fs.Float64Var(&c.PlayerRadius, "player-radius", constants.PlayerRadius, "Starting player radius")
	fs.BoolVar(&c.Bounce, "bounce", true, "Bounce particles off the player")
	fs.BoolVar(&c.Debug, "debug", false, "Start with quadtree regions visible")
	fs.Int64Var(&c.Seed, "seed", 0, "Random seed; defaults to "+SeedEnvVar+" or the current time")
}

// ResolveSeed fills in the seed from the environment or the clock when no flag set it.
func (c *Config) ResolveSeed() error {
	if c.Seed != 0 {
		return nil
	}
	if v := os.Getenv(SeedEnvVar); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", SeedEnvVar, err)
		}
		c.Seed = seed
		return nil
	}
	c.Seed = time.Now().UnixNano()
	return nil
}

// TickConfig returns the starting switches for the frame driver.
func (c *Config) TickConfig() TickConfig {
	return TickConfig{
		DebugEnabled: c.Debug,
		SpawnRate:    uint32(min(c.SpawnRate, uint(constants.MaxSpawnRate))),
	}
}

// NewBroadPhase creates the broad phase named by kind over arena.
func NewBroadPhase(kind string, arena quadtree.Bounds, opts quadtree.Options, cellSize int) (collision.BroadPhase, error) {
	switch kind {
	case BroadPhaseQuadtree, "":
		broad, err := collision.NewQuadtreeBroadPhase(arena, opts)
		if err != nil {
			return nil, err
		}
		return broad, nil
	case BroadPhaseGrid:
		broad, err := collision.NewGridBroadPhase(arena, cellSize)
		if err != nil {
			return nil, err
		}
		return broad, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBroadPhase, kind)
}

// NewSimulationFromConfig validates the config and builds the simulation it describes.
func NewSimulationFromConfig(c Config) (*Simulation, error) {
	arena, err := quadtree.NewBounds(0, 0, c.Width, c.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create arena: %w", err)
	}
	boundary, err := entity.ParseBoundaryPolicy(c.Boundary)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundary policy: %w", err)
	}
	treeOpts := quadtree.Options{Capacity: c.Capacity, MaxDepth: c.MaxDepth}
	broad, err := NewBroadPhase(c.BroadPhase, arena, treeOpts, c.CellSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create broad phase: %w", err)
	}

	var responder Responder
	if c.Bounce {
		responder = NewBounceResponder(c.Seed)
	}

	return NewSimulation(NewSimulationOptions{
		Arena:        arena,
		BroadPhase:   broad,
		TreeOptions:  treeOpts,
		Boundary:     boundary,
		PlayerRadius: c.PlayerRadius,
		Responder:    responder,
		Seed:         c.Seed,
	})
}
