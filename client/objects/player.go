package objects

import (
	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/game/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// PlayerObject draws the player circle. It turns red while anything touches it.
type PlayerObject struct {
	*BaseObject

	player    entity.Entity
	colliding bool
}

var _ GameObject = &PlayerObject{}

func NewPlayerObject(zIndex int) *PlayerObject {
	return &PlayerObject{
		BaseObject: NewBaseObject("player", zIndex),
	}
}

func (o *PlayerObject) Update(frame *types.Frame) error {
	o.player = frame.Player
	o.colliding = len(frame.Collisions) > 0
	return nil
}

func (o *PlayerObject) Draw(screen *ebiten.Image) {
	if o.player.Handle == entity.NilHandle {
		return
	}
	clr := colornames.White
	if o.colliding {
		clr = colornames.Red
	}
	vector.StrokeCircle(screen, float32(o.player.Position.X), float32(o.player.Position.Y), float32(o.player.Radius), 2, clr, true)
}
