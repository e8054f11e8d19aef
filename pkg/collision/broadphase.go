package collision

import (
	"fmt"
	"iter"

	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/log"
	"github.com/cbodonnell/quadsim/pkg/quadtree"
)

// BroadPhase narrows the set of entities that may touch an area. Implementations are
// rebuilt once per tick and may return duplicates or false positives, never false negatives.
type BroadPhase interface {
	// Rebuild indexes every live entity of reg, discarding the previous build.
	Rebuild(reg *entity.Registry) error
	// Candidates appends to dst the handles of entities that may overlap area.
	Candidates(area quadtree.Bounds, dst []entity.Handle) []entity.Handle
}

// RegionSource is implemented by broad phases that can expose their partition for
// debug drawing.
type RegionSource interface {
	Regions() iter.Seq[quadtree.Bounds]
}

// StatsSource is implemented by broad phases that report tree statistics.
type StatsSource interface {
	Stats() quadtree.Stats
}

// QuadtreeBroadPhase is a BroadPhase over a quadtree that is cleared and refilled every tick.
type QuadtreeBroadPhase struct {
	tree    *quadtree.Tree
	handles []entity.Handle
}

var (
	_ BroadPhase   = &QuadtreeBroadPhase{}
	_ RegionSource = &QuadtreeBroadPhase{}
	_ StatsSource  = &QuadtreeBroadPhase{}
)

// NewQuadtreeBroadPhase creates a quadtree broad phase covering arena.
func NewQuadtreeBroadPhase(arena quadtree.Bounds, opts quadtree.Options) (*QuadtreeBroadPhase, error) {
	tree, err := quadtree.NewTree(arena, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create quadtree: %w", err)
	}
	return &QuadtreeBroadPhase{tree: tree}, nil
}

func (q *QuadtreeBroadPhase) Rebuild(reg *entity.Registry) error {
	q.tree.Clear()
	q.handles = reg.Handles(q.handles[:0])
	for _, h := range q.handles {
		q.tree.Insert(h, reg)
	}
	if stats := q.tree.Stats(); stats.DepthLimitHits > 0 {
		log.Trace("Quadtree depth limit reached %d times over %d entities", stats.DepthLimitHits, len(q.handles))
	}
	return nil
}

func (q *QuadtreeBroadPhase) Candidates(area quadtree.Bounds, dst []entity.Handle) []entity.Handle {
	return q.tree.Query(area, dst)
}

func (q *QuadtreeBroadPhase) Regions() iter.Seq[quadtree.Bounds] {
	return q.tree.Regions()
}

func (q *QuadtreeBroadPhase) Stats() quadtree.Stats {
	return q.tree.Stats()
}

// Tree exposes the underlying tree.
func (q *QuadtreeBroadPhase) Tree() *quadtree.Tree {
	return q.tree
}
