package quadtree

import (
	"errors"
	"fmt"

	"github.com/cbodonnell/quadsim/pkg/kinematic"
)

var (
	// ErrInvalidRegion is returned when a region with a non-positive extent is constructed.
	ErrInvalidRegion = errors.New("region must have a positive width and height")
	// ErrInvalidCapacity is returned when a tree is constructed with a non-positive node capacity.
	ErrInvalidCapacity = errors.New("node capacity must be positive")
)

// Bounds is an axis-aligned rectangle given by its minimum corner and extent.
type Bounds struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewBounds returns the region with min corner (x, y) and the given extent.
func NewBounds(x, y, width, height float64) (Bounds, error) {
	b := Bounds{X: x, Y: y, Width: width, Height: height}
	if !b.Valid() {
		return Bounds{}, fmt.Errorf("%w: got %vx%v", ErrInvalidRegion, width, height)
	}
	return b, nil
}

// MustNewBounds is like NewBounds but panics on an invalid region.
func MustNewBounds(x, y, width, height float64) Bounds {
	b, err := NewBounds(x, y, width, height)
	if err != nil {
		panic(err)
	}
	return b
}

// SquareAround returns the square enclosing the circle at center with the given radius.
// The result is not validated: a zero radius yields a degenerate square.
func SquareAround(center kinematic.Vector, radius float64) Bounds {
	return Bounds{
		X:      center.X - radius,
		Y:      center.Y - radius,
		Width:  2 * radius,
		Height: 2 * radius,
	}
}

// Valid reports whether both extents are strictly positive.
func (b Bounds) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

func (b Bounds) MaxX() float64 {
	return b.X + b.Width
}

func (b Bounds) MaxY() float64 {
	return b.Y + b.Height
}

func (b Bounds) Center() kinematic.Vector {
	return kinematic.Vector{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// ContainsPoint reports whether p lies in the region.
// Min edges are inclusive and max edges exclusive, so sibling regions never share a point.
func (b Bounds) ContainsPoint(p kinematic.Vector) bool {
	return p.X >= b.X && p.X < b.MaxX() &&
		p.Y >= b.Y && p.Y < b.MaxY()
}

// Intersects reports whether the projections of both regions overlap on both axes.
// Touching edges count as overlapping.
func (b Bounds) Intersects(other Bounds) bool {
	return b.X <= other.MaxX() && other.X <= b.MaxX() &&
		b.Y <= other.MaxY() && other.Y <= b.MaxY()
}

// IntersectsCircle reports whether the circle overlaps the region, using the point of
// the region closest to the circle's center.
func (b Bounds) IntersectsCircle(center kinematic.Vector, radius float64) bool {
	closest := kinematic.Vector{
		X: clamp(center.X, b.X, b.MaxX()),
		Y: clamp(center.Y, b.Y, b.MaxY()),
	}
	return kinematic.DistanceSquared(center, closest) <= radius*radius
}

// Quadrants splits the region into its NW, NE, SW and SE quarters, with y growing downwards.
func (b Bounds) Quadrants() [4]Bounds {
	hw := b.Width / 2
	hh := b.Height / 2
	return [4]Bounds{
		{X: b.X, Y: b.Y, Width: hw, Height: hh},
		{X: b.X + hw, Y: b.Y, Width: hw, Height: hh},
		{X: b.X, Y: b.Y + hh, Width: hw, Height: hh},
		{X: b.X + hw, Y: b.Y + hh, Width: hw, Height: hh},
	}
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%.2f,%.2f %.2fx%.2f]", b.X, b.Y, b.Width, b.Height)
}

// Circle is the bounding circle of an entity.
type Circle struct {
	Center kinematic.Vector
	Radius float64
}

// Overlaps reports whether the two circles touch or overlap.
func (c Circle) Overlaps(other Circle) bool {
	r := c.Radius + other.Radius
	return kinematic.DistanceSquared(c.Center, other.Center) <= r*r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
