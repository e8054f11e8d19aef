package entity

import (
	"github.com/cbodonnell/quadsim/pkg/kinematic"
	"github.com/cbodonnell/quadsim/pkg/quadtree"
)

// Handle identifies an entity for the lifetime of a Registry. Handles are never reused.
type Handle = quadtree.Handle

// NilHandle is the zero value; no entity has this handle.
const NilHandle Handle = 0

type Kind uint8

const (
	KindParticle Kind = iota
	KindPlayer
)

func (k Kind) String() string {
	switch k {
	case KindParticle:
		return "particle"
	case KindPlayer:
		return "player"
	}
	return "unknown"
}

// Entity is a movable circle.
type Entity struct {
	Handle       Handle
	Kind         Kind
	Position     kinematic.Vector
	Radius       float64
	Velocity     kinematic.Vector
	Acceleration kinematic.Vector
}

// Circle returns the entity's bounding circle.
func (e *Entity) Circle() quadtree.Circle {
	return quadtree.Circle{Center: e.Position, Radius: e.Radius}
}

// SpawnSpec describes an entity to add to a Registry.
type SpawnSpec struct {
	Kind         Kind
	Position     kinematic.Vector
	Radius       float64
	Velocity     kinematic.Vector
	Acceleration kinematic.Vector
}
