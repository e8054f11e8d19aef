package collision

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/quadtree"
)

// Pair is two entities whose circles overlap. For player queries A is the player.
type Pair struct {
	A entity.Handle
	B entity.Handle
}

// key identifies the unordered pair.
func (p Pair) key() uint64 {
	lo, hi := p.A, p.B
	if lo > hi {
		lo, hi = hi, lo
	}
	return uint64(lo)<<32 | uint64(hi)
}

func comparePairs(a, b Pair) int {
	if c := cmp.Compare(a.A, b.A); c != 0 {
		return c
	}
	return cmp.Compare(a.B, b.B)
}

// Result is the outcome of one Step. Its slices are reused by the next Step.
type Result struct {
	// Collisions holds every (player, entity) pair whose circles overlap, sorted by handle.
	Collisions []Pair
	// Candidates is the number of distinct entities returned by the broad phase.
	Candidates int
	// Regions yields the broad-phase partition, or is nil if the broad phase has none.
	Regions iter.Seq[quadtree.Bounds]
	// Stats describes the tree built for this step when the broad phase is a quadtree.
	Stats quadtree.Stats
}

// Engine rebuilds a broad phase over a registry and confirms candidates with an exact
// circle test. It is not safe for concurrent use.
type Engine struct {
	broad BroadPhase

	candidates []entity.Handle
	seen       map[entity.Handle]struct{}
	seenPairs  map[uint64]struct{}
	collisions []Pair
	pairs      []Pair
}

// NewEngine creates an engine over the given broad phase.
func NewEngine(broad BroadPhase) *Engine {
	return &Engine{
		broad:      broad,
		seen:       make(map[entity.Handle]struct{}),
		seenPairs:  make(map[uint64]struct{}),
		collisions: make([]Pair, 0, 16),
		pairs:      make([]Pair, 0, 64),
	}
}

func (e *Engine) BroadPhase() BroadPhase {
	return e.broad
}

// Step rebuilds the broad phase from reg and returns the entities overlapping player.
// An unknown player handle yields an empty collision set.
func (e *Engine) Step(reg *entity.Registry, player entity.Handle) (Result, error) {
	if err := e.broad.Rebuild(reg); err != nil {
		return Result{}, fmt.Errorf("failed to rebuild broad phase: %w", err)
	}

	result := Result{
		Collisions: e.PlayerCollisions(reg, player),
		Candidates: len(e.seen),
	}
	if rs, ok := e.broad.(RegionSource); ok {
		result.Regions = rs.Regions()
	}
	if ss, ok := e.broad.(StatsSource); ok {
		result.Stats = ss.Stats()
	}
	return result, nil
}

// PlayerCollisions queries the current build with the square enclosing the player's
// circle and keeps the candidates that truly overlap it.
func (e *Engine) PlayerCollisions(reg *entity.Registry, player entity.Handle) []Pair {
	e.collisions = e.collisions[:0]
	clear(e.seen)

	p, ok := reg.Bound(player)
	if !ok {
		return e.collisions
	}

	e.candidates = e.broad.Candidates(quadtree.SquareAround(p.Center, p.Radius), e.candidates[:0])
	for _, h := range e.candidates {
		if h == player {
			continue
		}
		if _, dup := e.seen[h]; dup {
			continue
		}
		e.seen[h] = struct{}{}

		c, ok := reg.Bound(h)
		if !ok {
			continue
		}
		if p.Overlaps(c) {
			e.collisions = append(e.collisions, Pair{A: player, B: h})
		}
	}
	slices.SortFunc(e.collisions, comparePairs)
	return e.collisions
}

// AllPairs returns every pair of overlapping entities in the current build, each once,
// with A < B. Step or Rebuild must have been called for the current positions.
func (e *Engine) AllPairs(reg *entity.Registry) []Pair {
	e.pairs = e.pairs[:0]
	clear(e.seenPairs)

	entities := reg.Entities()
	for i := range entities {
		a := &entities[i]
		circle := a.Circle()
		e.candidates = e.broad.Candidates(quadtree.SquareAround(circle.Center, circle.Radius), e.candidates[:0])
		for _, h := range e.candidates {
			if h == a.Handle {
				continue
			}
			pair := Pair{A: min(a.Handle, h), B: max(a.Handle, h)}
			key := pair.key()
			if _, dup := e.seenPairs[key]; dup {
				continue
			}
			e.seenPairs[key] = struct{}{}

			b, ok := reg.Bound(h)
			if !ok {
				continue
			}
			if circle.Overlaps(b) {
				e.pairs = append(e.pairs, pair)
			}
		}
	}
	slices.SortFunc(e.pairs, comparePairs)
	return e.pairs
}

// Rebuild rebuilds the broad phase without querying it.
func (e *Engine) Rebuild(reg *entity.Registry) error {
	return e.broad.Rebuild(reg)
}
