package objects

import (
	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/game/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// tinyRadius is the radius below which particles are drawn as squares
const tinyRadius = 1.5

// ParticlesObject draws every particle, highlighting those touching the player.
type ParticlesObject struct {
	*BaseObject

	frame     *types.Frame
	colliding map[entity.Handle]struct{}
}

var _ GameObject = &ParticlesObject{}

func NewParticlesObject(zIndex int) *ParticlesObject {
	return &ParticlesObject{
		BaseObject: NewBaseObject("particles", zIndex),
	}
}

func (o *ParticlesObject) Update(frame *types.Frame) error {
	o.frame = frame
	o.colliding = frame.Colliding()
	return nil
}

func (o *ParticlesObject) Draw(screen *ebiten.Image) {
	if o.frame == nil {
		return
	}
	for _, e := range o.frame.Entities {
		if e.Kind != entity.KindParticle {
			continue
		}
		clr := colornames.Skyblue
		if _, ok := o.colliding[e.Handle]; ok {
			clr = colornames.Orangered
		}
		if e.Radius <= tinyRadius {
			vector.DrawFilledRect(screen, float32(e.Position.X-1), float32(e.Position.Y-1), 2, 2, clr, false)
			continue
		}
		vector.DrawFilledCircle(screen, float32(e.Position.X), float32(e.Position.Y), float32(e.Radius), clr, true)
	}
}
