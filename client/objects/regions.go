package objects

import (
	"github.com/cbodonnell/quadsim/pkg/game/types"
	"github.com/cbodonnell/quadsim/pkg/quadtree"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// RegionsObject outlines the quadtree nodes when the frame carries them.
type RegionsObject struct {
	*BaseObject

	regions []quadtree.Bounds
}

var _ GameObject = &RegionsObject{}

func NewRegionsObject(zIndex int) *RegionsObject {
	return &RegionsObject{
		BaseObject: NewBaseObject("regions", zIndex),
	}
}

// Update copies the regions out of the frame since the sequence is only valid until the next tick.
func (o *RegionsObject) Update(frame *types.Frame) error {
	o.regions = o.regions[:0]
	if frame.Regions == nil {
		return nil
	}
	for b := range frame.Regions {
		o.regions = append(o.regions, b)
	}
	return nil
}

func (o *RegionsObject) Draw(screen *ebiten.Image) {
	for _, b := range o.regions {
		vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 1, colornames.Lime, false)
	}
}
