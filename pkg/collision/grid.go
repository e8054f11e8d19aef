package collision

import (
	"fmt"
	"math"

	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/quadtree"
	"github.com/solarlune/resolv"
)

const (
	CollisionSpaceTagEntity string = "entity"
	CollisionSpaceTagProbe  string = "probe"

	// DefaultGridCellSize is the cell size used when none is given.
	DefaultGridCellSize = 32

	// gridPadding widens every object so that shapes touching exactly on a cell
	// border still share a cell.
	gridPadding = 1.0
)

// GridBroadPhase is a BroadPhase backed by a resolv uniform grid. It answers the same
// contract as the quadtree and serves as a reference for it.
type GridBroadPhase struct {
	arena   quadtree.Bounds
	space   *resolv.Space
	objects []*resolv.Object
	live    int
	probe   *resolv.Object
}

var _ BroadPhase = &GridBroadPhase{}

// NewGridBroadPhase creates a grid broad phase covering arena with square cells.
func NewGridBroadPhase(arena quadtree.Bounds, cellSize int) (*GridBroadPhase, error) {
	if !arena.Valid() {
		return nil, fmt.Errorf("%w: arena %s", quadtree.ErrInvalidRegion, arena)
	}
	if cellSize <= 0 {
		cellSize = DefaultGridCellSize
	}
	// resolv drops the remainder of width/cellSize, so round up to whole cells
	cols := int(math.Ceil((arena.Width + 2*gridPadding) / float64(cellSize)))
	rows := int(math.Ceil((arena.Height + 2*gridPadding) / float64(cellSize)))
	return &GridBroadPhase{
		arena: arena,
		space: resolv.NewSpace(cols*cellSize, rows*cellSize, cellSize, cellSize),
		probe: resolv.NewObject(0, 0, 0, 0, CollisionSpaceTagProbe),
	}, nil
}

func (g *GridBroadPhase) Rebuild(reg *entity.Registry) error {
	if g.live > 0 {
		g.space.Remove(g.objects[:g.live]...)
	}
	g.live = 0

	entities := reg.Entities()
	for i := range entities {
		e := &entities[i]
		var obj *resolv.Object
		if g.live < len(g.objects) {
			obj = g.objects[g.live]
		} else {
			obj = resolv.NewObject(0, 0, 0, 0, CollisionSpaceTagEntity)
			g.objects = append(g.objects, obj)
		}
		g.place(obj, quadtree.SquareAround(e.Position, e.Radius))
		obj.Data = e.Handle
		g.live++
	}
	if g.live > 0 {
		g.space.Add(g.objects[:g.live]...)
	}
	return nil
}

func (g *GridBroadPhase) Candidates(area quadtree.Bounds, dst []entity.Handle) []entity.Handle {
	g.place(g.probe, area)
	g.space.Add(g.probe)
	defer g.space.Remove(g.probe)

	collision := g.probe.Check(0, 0, CollisionSpaceTagEntity)
	if collision == nil {
		return dst
	}
	for _, obj := range collision.Objects {
		if h, ok := obj.Data.(entity.Handle); ok {
			dst = append(dst, h)
		}
	}
	return dst
}

// place positions obj over b in space coordinates, which start one padding width
// before the arena's min corner so padded objects on the min edges stay in the grid.
func (g *GridBroadPhase) place(obj *resolv.Object, b quadtree.Bounds) {
	obj.Position.X = b.X - g.arena.X
	obj.Position.Y = b.Y - g.arena.Y
	obj.Size.X = b.Width + 2*gridPadding
	obj.Size.Y = b.Height + 2*gridPadding
}
