package quadtree

import (
	"fmt"
	"iter"

	"github.com/cbodonnell/quadsim/pkg/kinematic"
	"github.com/cbodonnell/quadsim/pkg/log"
)

const (
	// DefaultCapacity is the number of handles a leaf holds before it subdivides.
	DefaultCapacity = 4
	// DefaultMaxDepth is the depth at which leaves stop subdividing.
	DefaultMaxDepth = 8

	noChildren int32 = -1
	rootIndex  int32 = 0
)

// Handle is a stable reference to an entity owned elsewhere.
type Handle uint32

// Locator resolves a handle to its current bounding circle.
// The boolean is false when the handle is no longer known.
type Locator interface {
	Bound(h Handle) (Circle, bool)
}

// Options configures a Tree.
type Options struct {
	// Capacity is the number of handles a leaf holds before it subdivides.
	Capacity int
	// MaxDepth is the depth at which leaves accept handles beyond Capacity.
	// The root is at depth 0.
	MaxDepth int
}

// Stats describes the shape of the tree after the current build.
type Stats struct {
	// Nodes is the number of nodes, including the root.
	Nodes int
	// Subdivisions is the number of leaf to internal transitions.
	Subdivisions int
	// References is the number of stored handles, counting duplicates across siblings.
	References int
	// MaxDepth is the depth of the deepest node.
	MaxDepth int
	// DepthLimitHits counts inserts accepted beyond capacity at the depth guard.
	DepthLimitHits int
}

type node struct {
	bounds     Bounds
	depth      int
	handles    []Handle
	firstChild int32
}

func (n *node) isLeaf() bool {
	return n.firstChild == noChildren
}

// Tree is a region quadtree over bounding circles. Nodes live in a single slice and
// refer to their four children by the index of the first one; children are contiguous
// in NW, NE, SW, SE order. A handle whose circle straddles a split is stored in every
// child it overlaps, so query results may contain duplicates.
type Tree struct {
	capacity int
	maxDepth int
	nodes    []node
	stats    Stats
}

// NewTree creates an empty tree covering bounds.
func NewTree(bounds Bounds, opts Options) (*Tree, error) {
	if !bounds.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRegion, bounds)
	}
	if opts.Capacity == 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Capacity < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, opts.Capacity)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	t := &Tree{
		capacity: opts.Capacity,
		maxDepth: opts.MaxDepth,
		nodes:    make([]node, 0, 1+4*opts.Capacity),
	}
	t.nodes = append(t.nodes, node{
		bounds:     bounds,
		handles:    make([]Handle, 0, opts.Capacity),
		firstChild: noChildren,
	})
	t.stats.Nodes = 1
	return t, nil
}

// Bounds returns the region covered by the root.
func (t *Tree) Bounds() Bounds {
	return t.nodes[rootIndex].bounds
}

func (t *Tree) Capacity() int {
	return t.capacity
}

func (t *Tree) MaxDepth() int {
	return t.maxDepth
}

func (t *Tree) Stats() Stats {
	return t.stats
}

// Insert stores h in every leaf whose region overlaps the handle's bounding circle.
// It returns false if the handle is unknown to loc or its circle lies outside the tree.
func (t *Tree) Insert(h Handle, loc Locator) bool {
	c, ok := loc.Bound(h)
	if !ok {
		log.Trace("Handle %d not found, skipping insert", h)
		return false
	}
	return t.insert(rootIndex, h, c, loc)
}

func (t *Tree) insert(idx int32, h Handle, c Circle, loc Locator) bool {
	n := &t.nodes[idx]
	if !n.bounds.IntersectsCircle(c.Center, c.Radius) {
		return false
	}

	if n.isLeaf() {
		if len(n.handles) < t.capacity {
			n.handles = append(n.handles, h)
			t.stats.References++
			return true
		}
		if n.depth >= t.maxDepth {
			n.handles = append(n.handles, h)
			t.stats.References++
			t.stats.DepthLimitHits++
			log.Trace("Depth limit %d reached at %s, node now holds %d handles", t.maxDepth, n.bounds, len(n.handles))
			return true
		}
		t.subdivide(idx, loc)
	}

	first := t.nodes[idx].firstChild
	placed := false
	for i := int32(0); i < 4; i++ {
		if t.insert(first+i, h, c, loc) {
			placed = true
		}
	}
	return placed
}

// subdivide turns the leaf at idx into an internal node and moves its handles into
// the new children.
func (t *Tree) subdivide(idx int32, loc Locator) {
	parent := t.nodes[idx]
	quadrants := parent.bounds.Quadrants()
	first := int32(len(t.nodes))
	for _, q := range quadrants {
		t.allocNode(q, parent.depth+1)
	}

	held := parent.handles
	t.nodes[idx].firstChild = first
	t.nodes[idx].handles = held[:0]
	t.stats.References -= len(held)
	t.stats.Subdivisions++

	for _, h := range held {
		c, ok := loc.Bound(h)
		if !ok {
			continue
		}
		for i := int32(0); i < 4; i++ {
			t.insert(first+i, h, c, loc)
		}
	}
}

// allocNode appends a leaf, reusing handle storage left behind by a previous Clear.
func (t *Tree) allocNode(b Bounds, depth int) int32 {
	idx := int32(len(t.nodes))
	if len(t.nodes) < cap(t.nodes) {
		t.nodes = t.nodes[:len(t.nodes)+1]
		n := &t.nodes[idx]
		n.bounds = b
		n.depth = depth
		n.firstChild = noChildren
		n.handles = n.handles[:0]
	} else {
		t.nodes = append(t.nodes, node{
			bounds:     b,
			depth:      depth,
			handles:    make([]Handle, 0, t.capacity),
			firstChild: noChildren,
		})
	}
	t.stats.Nodes++
	if depth > t.stats.MaxDepth {
		t.stats.MaxDepth = depth
	}
	return idx
}

// Query appends to dst the handles held by every node whose region intersects area.
// Handles stored in several siblings are appended once per sibling.
func (t *Tree) Query(area Bounds, dst []Handle) []Handle {
	return t.query(rootIndex, func(b Bounds) bool { return b.Intersects(area) }, dst)
}

// QueryCircle is like Query but selects nodes by their overlap with a circle.
func (t *Tree) QueryCircle(center kinematic.Vector, radius float64, dst []Handle) []Handle {
	return t.query(rootIndex, func(b Bounds) bool { return b.IntersectsCircle(center, radius) }, dst)
}

func (t *Tree) query(idx int32, overlaps func(Bounds) bool, dst []Handle) []Handle {
	n := &t.nodes[idx]
	if idx == rootIndex && !overlaps(n.bounds) {
		return dst
	}
	dst = append(dst, n.handles...)
	if n.isLeaf() {
		return dst
	}
	for i := int32(0); i < 4; i++ {
		child := n.firstChild + i
		if overlaps(t.nodes[child].bounds) {
			dst = t.query(child, overlaps, dst)
		}
	}
	return dst
}

// Clear empties the tree back to a single root leaf. Node storage is kept for reuse.
func (t *Tree) Clear() {
	root := &t.nodes[rootIndex]
	root.handles = root.handles[:0]
	root.firstChild = noChildren
	t.nodes = t.nodes[:1]
	t.stats = Stats{Nodes: 1}
}

// Regions yields the region of every node in pre-order. The sequence can be ranged
// over again to re-traverse the current tree.
func (t *Tree) Regions() iter.Seq[Bounds] {
	return func(yield func(Bounds) bool) {
		t.walk(rootIndex, yield)
	}
}

func (t *Tree) walk(idx int32, yield func(Bounds) bool) bool {
	n := &t.nodes[idx]
	if !yield(n.bounds) {
		return false
	}
	if n.isLeaf() {
		return true
	}
	for i := int32(0); i < 4; i++ {
		if !t.walk(n.firstChild+i, yield) {
			return false
		}
	}
	return true
}
