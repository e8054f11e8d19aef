package entity

import (
	"fmt"

	"github.com/cbodonnell/quadsim/pkg/kinematic"
	"github.com/cbodonnell/quadsim/pkg/log"
	"github.com/cbodonnell/quadsim/pkg/quadtree"
)

// BoundaryPolicy decides what happens to a moving entity that reaches the arena edge.
type BoundaryPolicy uint8

const (
	// BoundaryBounce keeps the circle inside the arena and reflects its velocity on the hit axis.
	BoundaryBounce BoundaryPolicy = iota
	// BoundaryDespawn removes entities whose center has left the arena.
	BoundaryDespawn
)

func (p BoundaryPolicy) String() string {
	switch p {
	case BoundaryBounce:
		return "bounce"
	case BoundaryDespawn:
		return "despawn"
	}
	return "unknown"
}

// ParseBoundaryPolicy parses "bounce" or "despawn".
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch s {
	case "bounce":
		return BoundaryBounce, nil
	case "despawn":
		return BoundaryDespawn, nil
	default:
		return BoundaryBounce, fmt.Errorf("unknown boundary policy: %s", s)
	}
}

// Registry owns every entity in the arena. It holds position and velocity truth only;
// it knows nothing about collisions.
type Registry struct {
	arena    quadtree.Bounds
	policy   BoundaryPolicy
	nextID   Handle
	entities []Entity
	index    map[Handle]int
	removed  []Handle
}

var _ quadtree.Locator = &Registry{}

// NewRegistry creates an empty registry for the given arena.
func NewRegistry(arena quadtree.Bounds, policy BoundaryPolicy) (*Registry, error) {
	if !arena.Valid() {
		return nil, fmt.Errorf("%w: arena %s", quadtree.ErrInvalidRegion, arena)
	}
	return &Registry{
		arena:  arena,
		policy: policy,
		nextID: 1,
		index:  make(map[Handle]int),
	}, nil
}

func (r *Registry) Arena() quadtree.Bounds {
	return r.arena
}

func (r *Registry) Policy() BoundaryPolicy {
	return r.policy
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.entities)
}

// Add creates an entity from spec and returns its handle.
func (r *Registry) Add(spec SpawnSpec) Handle {
	h := r.nextID
	r.nextID++
	if spec.Radius < 0 {
		spec.Radius = 0
	}
	r.index[h] = len(r.entities)
	r.entities = append(r.entities, Entity{
		Handle:       h,
		Kind:         spec.Kind,
		Position:     spec.Position,
		Radius:       spec.Radius,
		Velocity:     spec.Velocity,
		Acceleration: spec.Acceleration,
	})
	return h
}

// Remove deletes the entity. Unknown handles are ignored and reported with false.
func (r *Registry) Remove(h Handle) bool {
	i, ok := r.index[h]
	if !ok {
		log.Trace("Handle %d not found, skipping remove", h)
		return false
	}
	last := len(r.entities) - 1
	if i != last {
		r.entities[i] = r.entities[last]
		r.index[r.entities[i].Handle] = i
	}
	r.entities = r.entities[:last]
	delete(r.index, h)
	return true
}

// Get returns the entity for h. The pointer is valid until the next Add or Remove.
func (r *Registry) Get(h Handle) (*Entity, bool) {
	i, ok := r.index[h]
	if !ok {
		return nil, false
	}
	return &r.entities[i], true
}

// Bound returns the bounding circle of h.
func (r *Registry) Bound(h Handle) (quadtree.Circle, bool) {
	e, ok := r.Get(h)
	if !ok {
		return quadtree.Circle{}, false
	}
	return e.Circle(), true
}

// Entities returns the live entities. The slice is owned by the registry and must not
// be retained past the next mutation.
func (r *Registry) Entities() []Entity {
	return r.entities
}

// Handles appends every live handle to dst.
func (r *Registry) Handles(dst []Handle) []Handle {
	for i := range r.entities {
		dst = append(dst, r.entities[i].Handle)
	}
	return dst
}

// SetPosition moves h to p, clamping the center into the arena.
func (r *Registry) SetPosition(h Handle, p kinematic.Vector) bool {
	e, ok := r.Get(h)
	if !ok {
		return false
	}
	e.Position = kinematic.Vector{
		X: clamp(p.X, r.arena.X, r.arena.MaxX()),
		Y: clamp(p.Y, r.arena.Y, r.arena.MaxY()),
	}
	return true
}

func (r *Registry) SetRadius(h Handle, radius float64) bool {
	e, ok := r.Get(h)
	if !ok {
		return false
	}
	e.Radius = max(radius, 0)
	return true
}

func (r *Registry) SetVelocity(h Handle, v kinematic.Vector) bool {
	e, ok := r.Get(h)
	if !ok {
		return false
	}
	e.Velocity = v
	return true
}

// UpdatePositions advances every non-player entity by dt seconds and applies the
// boundary policy. It returns the handles removed by BoundaryDespawn; the returned
// slice is reused by the next call.
func (r *Registry) UpdatePositions(dt float64) []Handle {
	r.removed = r.removed[:0]
	for i := range r.entities {
		e := &r.entities[i]
		if e.Kind == KindPlayer {
			continue
		}
		e.Position.X += kinematic.Displacement(e.Velocity.X, dt, e.Acceleration.X)
		e.Position.Y += kinematic.Displacement(e.Velocity.Y, dt, e.Acceleration.Y)
		e.Velocity.X = kinematic.FinalVelocity(e.Velocity.X, dt, e.Acceleration.X)
		e.Velocity.Y = kinematic.FinalVelocity(e.Velocity.Y, dt, e.Acceleration.Y)

		switch r.policy {
		case BoundaryBounce:
			e.Position.X, e.Velocity.X = bounce(e.Position.X, e.Velocity.X, e.Radius, r.arena.X, r.arena.MaxX())
			e.Position.Y, e.Velocity.Y = bounce(e.Position.Y, e.Velocity.Y, e.Radius, r.arena.Y, r.arena.MaxY())
		case BoundaryDespawn:
			if !r.arena.ContainsPoint(e.Position) {
				r.removed = append(r.removed, e.Handle)
			}
		}
	}
	for _, h := range r.removed {
		r.Remove(h)
	}
	return r.removed
}

// bounce keeps a circle of radius within [lo, hi] on one axis, reflecting the velocity
// away from the edge it crossed.
func bounce(pos, vel, radius, lo, hi float64) (float64, float64) {
	minPos := lo + radius
	maxPos := hi - radius
	if minPos > maxPos {
		return (lo + hi) / 2, 0
	}
	if pos < minPos {
		if vel < 0 {
			vel = -vel
		}
		return minPos, vel
	}
	if pos > maxPos {
		if vel > 0 {
			vel = -vel
		}
		return maxPos, vel
	}
	return pos, vel
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
