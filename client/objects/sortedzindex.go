package objects

import (
	"fmt"

	"github.com/cbodonnell/quadsim/pkg/game/types"
	"github.com/hajimehoshi/ebiten/v2"
)

// SortedZIndexObject is a GameObject that maintains a sorted list of child objects by z-index.
type SortedZIndexObject struct {
	*BaseObject

	// sorted is a list of child objects sorted by z-index.
	sorted []GameObject
}

var _ GameObject = &SortedZIndexObject{}

func NewSortedZIndexObject(id string) *SortedZIndexObject {
	return &SortedZIndexObject{
		BaseObject: NewBaseObject(id, 0),
		sorted:     make([]GameObject, 0),
	}
}

func (o *SortedZIndexObject) AddChild(child GameObject) error {
	for _, obj := range o.sorted {
		if obj.GetID() == child.GetID() {
			return fmt.Errorf("child object with id %s already exists", child.GetID())
		}
	}
	for i, obj := range o.sorted {
		if obj.GetZIndex() > child.GetZIndex() {
			o.sorted = append(o.sorted[:i], append([]GameObject{child}, o.sorted[i:]...)...)
			return nil
		}
	}
	o.sorted = append(o.sorted, child)
	return nil
}

func (o *SortedZIndexObject) Update(frame *types.Frame) error {
	for _, child := range o.sorted {
		if err := child.Update(frame); err != nil {
			return fmt.Errorf("failed to update child %s: %v", child.GetID(), err)
		}
	}
	return nil
}

func (o *SortedZIndexObject) Draw(screen *ebiten.Image) {
	for _, child := range o.sorted {
		child.Draw(screen)
	}
}
