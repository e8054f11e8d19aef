package objects

import (
	"github.com/cbodonnell/quadsim/pkg/game/types"
	"github.com/hajimehoshi/ebiten/v2"
)

// GameObject is the highest level interface for drawable types. Objects read the
// latest frame in Update and draw it in Draw.
type GameObject interface {
	GetID() string
	GetZIndex() int
	Update(frame *types.Frame) error
	Draw(screen *ebiten.Image)
}

// BaseObject carries the identity shared by every object.
type BaseObject struct {
	id     string
	zIndex int
}

func NewBaseObject(id string, zIndex int) *BaseObject {
	return &BaseObject{
		id:     id,
		zIndex: zIndex,
	}
}

func (o *BaseObject) GetID() string {
	return o.id
}

func (o *BaseObject) GetZIndex() int {
	return o.zIndex
}
