package types

import (
	"iter"

	"github.com/cbodonnell/quadsim/pkg/collision"
	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/quadtree"
)

// Frame is everything the presentation layer needs after one simulation tick.
type Frame struct {
	// RunID identifies the simulation that produced the frame
	RunID string
	// Tick is the number of the tick that produced the frame, starting at 1
	Tick uint64
	// DeltaTime is the elapsed time simulated by the tick, in seconds
	DeltaTime float64
	// Player is the player entity
	Player entity.Entity
	// Entities holds every live entity, the player included
	Entities []entity.Entity
	// Collisions holds the (player, particle) pairs overlapping this tick
	Collisions []collision.Pair
	// Regions yields the quadtree node boundaries, or is nil when debug drawing is off.
	// It traverses the live tree and must be consumed before the next tick.
	Regions iter.Seq[quadtree.Bounds]
	// Stats summarizes the tick
	Stats FrameStats
}

type FrameStats struct {
	Particles  int
	Spawned    int
	Despawned  int
	Candidates int
	Tree       quadtree.Stats
}

// Colliding returns the set of handles touching the player.
func (f *Frame) Colliding() map[entity.Handle]struct{} {
	set := make(map[entity.Handle]struct{}, len(f.Collisions))
	for _, p := range f.Collisions {
		set[p.B] = struct{}{}
	}
	return set
}
