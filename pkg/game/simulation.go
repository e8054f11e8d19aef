package game

import (
	"fmt"

	"github.com/cbodonnell/quadsim/pkg/collision"
	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/game/constants"
	"github.com/cbodonnell/quadsim/pkg/game/types"
	"github.com/cbodonnell/quadsim/pkg/kinematic"
	"github.com/cbodonnell/quadsim/pkg/log"
	"github.com/cbodonnell/quadsim/pkg/quadtree"
	"github.com/google/uuid"
)

// TickConfig carries the host-controlled switches for one tick.
type TickConfig struct {
	// DebugEnabled exposes the quadtree regions in the frame
	DebugEnabled bool
	// SpawnRate is the number of particles spawned per second
	SpawnRate uint32
}

// TickInput carries the per-tick input from the host.
type TickInput struct {
	// DeltaTime is the elapsed time to simulate, in seconds
	DeltaTime float64
	// PlayerTarget is where the player should be this tick
	PlayerTarget kinematic.Vector
	// PlayerRadiusDelta grows or shrinks the player
	PlayerRadiusDelta float64
}

// Simulation owns the registry and the collision engine and advances them one tick at a time.
// It is not safe for concurrent use: the host must finish reading a Frame before the next Tick.
type Simulation struct {
	id        string
	registry  *entity.Registry
	engine    *collision.Engine
	spawner   *Spawner
	responder Responder
	player    entity.Handle
	tick      uint64

	entities   []entity.Entity
	collisions []collision.Pair
}

// NewSimulationOptions contains options for creating a new Simulation.
type NewSimulationOptions struct {
	// Arena is the region covered by the simulation
	Arena quadtree.Bounds
	// BroadPhase narrows collision candidates; a quadtree over Arena is used when nil
	BroadPhase collision.BroadPhase
	// TreeOptions configures the default quadtree broad phase
	TreeOptions quadtree.Options
	// Boundary is what happens to particles at the arena edge
	Boundary entity.BoundaryPolicy
	// PlayerRadius is the starting radius of the player
	PlayerRadius float64
	// Responder reacts to collisions; nil leaves particles untouched
	Responder Responder
	// Seed seeds the spawner
	Seed int64
}

func NewSimulation(opts NewSimulationOptions) (*Simulation, error) {
	registry, err := entity.NewRegistry(opts.Arena, opts.Boundary)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	broad := opts.BroadPhase
	if broad == nil {
		broad, err = collision.NewQuadtreeBroadPhase(opts.Arena, opts.TreeOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to create broad phase: %w", err)
		}
	}

	radius := opts.PlayerRadius
	if radius <= 0 {
		radius = constants.PlayerRadius
	}
	player := registry.Add(entity.SpawnSpec{
		Kind:     entity.KindPlayer,
		Position: opts.Arena.Center(),
		Radius:   radius,
	})

	s := &Simulation{
		id:        uuid.New().String(),
		registry:  registry,
		engine:    collision.NewEngine(broad),
		spawner:   NewSpawner(opts.Seed),
		responder: opts.Responder,
		player:    player,
	}
	log.Debug("Simulation %s created with arena %s, boundary %s", s.id, opts.Arena, opts.Boundary)
	return s, nil
}

func (s *Simulation) ID() string {
	return s.id
}

func (s *Simulation) Registry() *entity.Registry {
	return s.registry
}

func (s *Simulation) Engine() *collision.Engine {
	return s.engine
}

func (s *Simulation) Player() entity.Handle {
	return s.player
}

func (s *Simulation) Arena() quadtree.Bounds {
	return s.registry.Arena()
}

// Tick runs one simulation step: apply input, spawn, move, rebuild the broad phase,
// detect player collisions, and let the responder react. The slices in the returned
// frame are reused by the next call.
func (s *Simulation) Tick(in TickInput, cfg TickConfig) (*types.Frame, error) {
	s.tick++
	dt := max(in.DeltaTime, 0)

	player, ok := s.registry.Get(s.player)
	if !ok {
		return nil, fmt.Errorf("player %d is missing from the registry", s.player)
	}
	start := player.Position
	s.registry.SetPosition(s.player, in.PlayerTarget)
	if in.PlayerRadiusDelta != 0 {
		radius := min(max(player.Radius+in.PlayerRadiusDelta, constants.PlayerMinRadius), constants.PlayerMaxRadius)
		s.registry.SetRadius(s.player, radius)
	}
	player, _ = s.registry.Get(s.player)
	push := player.Position.Sub(start)

	spawned := s.spawner.Spawn(s.registry, dt, min(cfg.SpawnRate, constants.MaxSpawnRate))
	despawned := len(s.registry.UpdatePositions(dt))

	result, err := s.engine.Step(s.registry, s.player)
	if err != nil {
		return nil, fmt.Errorf("failed to run collision step: %w", err)
	}
	s.collisions = append(s.collisions[:0], result.Collisions...)

	if s.responder != nil && len(s.collisions) > 0 {
		s.responder.Respond(s.registry, s.collisions, push)
	}

	s.entities = append(s.entities[:0], s.registry.Entities()...)
	player, _ = s.registry.Get(s.player)

	frame := &types.Frame{
		RunID:      s.id,
		Tick:       s.tick,
		DeltaTime:  dt,
		Player:     *player,
		Entities:   s.entities,
		Collisions: s.collisions,
		Stats: types.FrameStats{
			Particles:  s.registry.Len() - 1,
			Spawned:    spawned,
			Despawned:  despawned,
			Candidates: result.Candidates,
			Tree:       result.Stats,
		},
	}
	if cfg.DebugEnabled {
		frame.Regions = result.Regions
	}

	log.Trace("Tick %d: %d particles, %d spawned, %d despawned, %d candidates, %d collisions",
		s.tick, frame.Stats.Particles, spawned, despawned, result.Candidates, len(s.collisions))
	return frame, nil
}
