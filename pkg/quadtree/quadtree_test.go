package quadtree

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/cbodonnell/quadsim/pkg/kinematic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// circles is a Locator backed by a map.
type circles map[Handle]Circle

func (c circles) Bound(h Handle) (Circle, bool) {
	circle, ok := c[h]
	return circle, ok
}

func circleAt(x, y, r float64) Circle {
	return Circle{Center: kinematic.Vector{X: x, Y: y}, Radius: r}
}

func newTestTree(t *testing.T, opts Options) *Tree {
	t.Helper()
	tree, err := NewTree(MustNewBounds(0, 0, 800, 600), opts)
	require.NoError(t, err)
	return tree
}

func insertAll(tree *Tree, loc circles) {
	handles := make([]Handle, 0, len(loc))
	for h := range loc {
		handles = append(handles, h)
	}
	slices.Sort(handles)
	for _, h := range handles {
		tree.Insert(h, loc)
	}
}

func uniqueSorted(hs []Handle) []Handle {
	out := slices.Clone(hs)
	slices.Sort(out)
	return slices.Compact(out)
}

func TestNewTree(t *testing.T) {
	_, err := NewTree(Bounds{Width: 0, Height: 10}, Options{})
	assert.ErrorIs(t, err, ErrInvalidRegion)

	_, err = NewTree(MustNewBounds(0, 0, 10, 10), Options{Capacity: -1})
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	tree, err := NewTree(MustNewBounds(0, 0, 10, 10), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultCapacity, tree.Capacity())
	assert.Equal(t, DefaultMaxDepth, tree.MaxDepth())
	assert.Equal(t, Stats{Nodes: 1}, tree.Stats())
}

func TestTree_Insert(t *testing.T) {
	tree := newTestTree(t, Options{Capacity: 4})
	loc := circles{
		1: circleAt(100, 100, 5),
		2: circleAt(-50, -50, 5),
		3: circleAt(805, 300, 10),
	}

	assert.True(t, tree.Insert(1, loc))
	assert.False(t, tree.Insert(2, loc), "circle outside the arena is not applicable")
	assert.True(t, tree.Insert(3, loc), "circle straddling the arena edge is stored")
	assert.False(t, tree.Insert(99, loc), "unknown handle is a no-op")
	assert.Equal(t, 2, tree.Stats().References)
}

func TestTree_subdivision(t *testing.T) {
	tree := newTestTree(t, Options{Capacity: 4})
	// one entity per quadrant, then a fifth in the NW quadrant
	loc := circles{
		1: circleAt(100, 100, 5),
		2: circleAt(700, 100, 5),
		3: circleAt(100, 500, 5),
		4: circleAt(700, 500, 5),
	}
	insertAll(tree, loc)
	assert.Equal(t, 0, tree.Stats().Subdivisions)
	assert.Equal(t, 1, tree.Stats().Nodes)

	loc[5] = circleAt(200, 200, 5)
	require.True(t, tree.Insert(5, loc))

	stats := tree.Stats()
	assert.Equal(t, 1, stats.Subdivisions)
	assert.Equal(t, 5, stats.Nodes)
	assert.Equal(t, 1, stats.MaxDepth)
	assert.Equal(t, 5, stats.References)

	all := tree.Query(tree.Bounds(), nil)
	assert.ElementsMatch(t, []Handle{1, 2, 3, 4, 5}, all)

	nw := tree.Query(Bounds{X: 0, Y: 0, Width: 300, Height: 250}, nil)
	assert.ElementsMatch(t, []Handle{1, 5}, nw)
}

func TestTree_containment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tree := newTestTree(t, Options{Capacity: 4, MaxDepth: 8})
	loc := circles{}
	for i := 1; i <= 500; i++ {
		loc[Handle(i)] = circleAt(rng.Float64()*800, rng.Float64()*600, 1+rng.Float64()*10)
	}
	insertAll(tree, loc)

	for h, c := range loc {
		got := tree.Query(SquareAround(c.Center, c.Radius), nil)
		assert.Contains(t, got, h, "handle %d missing from query around its own circle", h)

		got = tree.QueryCircle(c.Center, c.Radius, nil)
		assert.Contains(t, got, h, "handle %d missing from circle query", h)
	}
}

func TestTree_boundaryDuplication(t *testing.T) {
	tree := newTestTree(t, Options{Capacity: 1})
	loc := circles{
		1: circleAt(100, 500, 5),
		// straddles the vertical split between NW and NE
		2: circleAt(400, 100, 10),
	}
	insertAll(tree, loc)
	require.Equal(t, 1, tree.Stats().Subdivisions)
	assert.Equal(t, 3, tree.Stats().References, "straddling handle is stored in both siblings")

	quadrants := tree.Bounds().Quadrants()
	west := Bounds{X: 0, Y: 0, Width: 399, Height: 299}
	east := Bounds{X: 401, Y: 0, Width: 399, Height: 299}
	assert.True(t, quadrants[0].Intersects(west) && !quadrants[1].Intersects(west))
	assert.True(t, quadrants[1].Intersects(east) && !quadrants[0].Intersects(east))

	assert.Contains(t, tree.Query(west, nil), Handle(2))
	assert.Contains(t, tree.Query(east, nil), Handle(2))
	assert.NotContains(t, tree.Query(east, nil), Handle(1))
}

func TestTree_depthGuard(t *testing.T) {
	tree := newTestTree(t, Options{Capacity: 4, MaxDepth: 6})
	loc := circles{}
	for i := 1; i <= 5; i++ {
		loc[Handle(i)] = circleAt(0, 0, 5)
	}
	insertAll(tree, loc)

	stats := tree.Stats()
	assert.Equal(t, 6, stats.MaxDepth)
	assert.Equal(t, 6, stats.Subdivisions)
	assert.Equal(t, 1, stats.DepthLimitHits)
	assert.Equal(t, 25, stats.Nodes)

	got := uniqueSorted(tree.Query(SquareAround(kinematic.Vector{}, 5), nil))
	assert.Equal(t, []Handle{1, 2, 3, 4, 5}, got)
}

func TestTree_depthGuard_straddlingCenter(t *testing.T) {
	tree, err := NewTree(MustNewBounds(-400, -300, 800, 600), Options{Capacity: 4, MaxDepth: 6})
	require.NoError(t, err)
	loc := circles{}
	for i := 1; i <= 5; i++ {
		loc[Handle(i)] = circleAt(0, 0, 5)
	}
	insertAll(tree, loc)

	stats := tree.Stats()
	assert.LessOrEqual(t, stats.MaxDepth, 6)
	assert.Positive(t, stats.DepthLimitHits)
	got := uniqueSorted(tree.Query(SquareAround(kinematic.Vector{}, 5), nil))
	assert.Equal(t, []Handle{1, 2, 3, 4, 5}, got)
}

func TestTree_Clear(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tree := newTestTree(t, Options{Capacity: 4})
	loc := circles{}
	for i := 1; i <= 200; i++ {
		loc[Handle(i)] = circleAt(rng.Float64()*800, rng.Float64()*600, 3)
	}
	area := Bounds{X: 250, Y: 150, Width: 200, Height: 120}

	insertAll(tree, loc)
	firstQuery := uniqueSorted(tree.Query(area, nil))
	firstStats := tree.Stats()
	var firstRegions []Bounds
	for r := range tree.Regions() {
		firstRegions = append(firstRegions, r)
	}

	tree.Clear()
	assert.Equal(t, Stats{Nodes: 1}, tree.Stats())
	assert.Empty(t, tree.Query(tree.Bounds(), nil))

	insertAll(tree, loc)
	assert.Equal(t, firstQuery, uniqueSorted(tree.Query(area, nil)))
	assert.Equal(t, firstStats, tree.Stats())
	var secondRegions []Bounds
	for r := range tree.Regions() {
		secondRegions = append(secondRegions, r)
	}
	assert.Equal(t, firstRegions, secondRegions)
}

func TestTree_Regions(t *testing.T) {
	tree := newTestTree(t, Options{Capacity: 1})
	loc := circles{
		1: circleAt(100, 100, 1),
		2: circleAt(700, 500, 1),
		3: circleAt(150, 120, 1),
	}
	insertAll(tree, loc)

	count := 0
	for range tree.Regions() {
		count++
	}
	assert.Equal(t, tree.Stats().Nodes, count)

	// restartable
	again := 0
	for range tree.Regions() {
		again++
	}
	assert.Equal(t, count, again)

	// early exit stops the traversal
	seen := 0
	for r := range tree.Regions() {
		seen++
		if seen == 2 {
			assert.Equal(t, tree.Bounds().Quadrants()[0], r)
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestTree_Query_outsideRoot(t *testing.T) {
	tree := newTestTree(t, Options{})
	loc := circles{1: circleAt(10, 10, 1)}
	insertAll(tree, loc)
	assert.Empty(t, tree.Query(Bounds{X: 900, Y: 900, Width: 10, Height: 10}, nil))
}
