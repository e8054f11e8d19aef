package game

import (
	"math/rand"

	"github.com/cbodonnell/quadsim/pkg/collision"
	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/game/constants"
	"github.com/cbodonnell/quadsim/pkg/kinematic"
)

// Responder reacts to the collisions detected in a tick. push is how far the player
// moved during the tick.
type Responder interface {
	Respond(reg *entity.Registry, pairs []collision.Pair, push kinematic.Vector)
}

// BounceResponder knocks particles off the player: each particle is moved out to the
// player's rim and its velocity is reflected about the contact normal, damped, and
// rotated by a small random angle.
type BounceResponder struct {
	rng         *rand.Rand
	restitution float64
	minSpeed    float64
	angleJitter float64
}

var _ Responder = &BounceResponder{}

func NewBounceResponder(seed int64) *BounceResponder {
	return &BounceResponder{
		rng:         rand.New(rand.NewSource(seed)),
		restitution: constants.BounceRestitution,
		minSpeed:    constants.BounceMinSpeed,
		angleJitter: constants.BounceAngleJitter,
	}
}

func (b *BounceResponder) Respond(reg *entity.Registry, pairs []collision.Pair, push kinematic.Vector) {
	for _, pair := range pairs {
		player, ok := reg.Get(pair.A)
		if !ok {
			return
		}
		particle, ok := reg.Get(pair.B)
		if !ok {
			continue
		}

		normal := particle.Position.Sub(player.Position).Normalize()
		if normal == (kinematic.Vector{}) {
			// concentric circles, push straight up
			normal = kinematic.Vector{X: 0, Y: -1}
		}
		particle.Position = player.Position.Add(normal.Scale(particle.Radius + player.Radius))

		// v' = v - 2(v.n)n, plus whatever the player carried into the contact
		v := particle.Velocity
		v = v.Add(push).Sub(normal.Scale(2 * v.Dot(normal)))
		v = v.Scale(b.restitution)
		if v.Length() < b.minSpeed {
			dir := v.Normalize()
			if dir == (kinematic.Vector{}) {
				dir = normal
			}
			v = dir.Scale(b.minSpeed)
		}
		theta := (b.rng.Float64()*2 - 1) * b.angleJitter
		particle.Velocity = v.Rotate(theta)
	}
}
