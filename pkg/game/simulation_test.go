package game

import (
	"testing"

	"github.com/cbodonnell/quadsim/pkg/collision"
	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/game/constants"
	"github.com/cbodonnell/quadsim/pkg/kinematic"
	"github.com/cbodonnell/quadsim/pkg/quadtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulation(t *testing.T, opts NewSimulationOptions) *Simulation {
	t.Helper()
	if opts.Arena == (quadtree.Bounds{}) {
		opts.Arena = quadtree.MustNewBounds(0, 0, 800, 600)
	}
	s, err := NewSimulation(opts)
	require.NoError(t, err)
	return s
}

func TestNewSimulation(t *testing.T) {
	_, err := NewSimulation(NewSimulationOptions{})
	assert.ErrorIs(t, err, quadtree.ErrInvalidRegion)

	s := newTestSimulation(t, NewSimulationOptions{})
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 1, s.Registry().Len())
	player, ok := s.Registry().Get(s.Player())
	require.True(t, ok)
	assert.Equal(t, entity.KindPlayer, player.Kind)
	assert.Equal(t, constants.PlayerRadius, player.Radius)
	assert.Equal(t, kinematic.Vector{X: 400, Y: 300}, player.Position)
}

func TestSimulation_Tick_collisions(t *testing.T) {
	s := newTestSimulation(t, NewSimulationOptions{
		TreeOptions:  quadtree.Options{Capacity: 4},
		PlayerRadius: 10,
	})
	near := s.Registry().Add(entity.SpawnSpec{Position: kinematic.Vector{X: 405, Y: 300}, Radius: 10})
	in := TickInput{DeltaTime: 0.016, PlayerTarget: kinematic.Vector{X: 400, Y: 300}}

	frame, err := s.Tick(in, TickConfig{})
	require.NoError(t, err)
	assert.Equal(t, []collision.Pair{{A: s.Player(), B: near}}, frame.Collisions)
	assert.Contains(t, frame.Colliding(), near)

	far := s.Registry().Add(entity.SpawnSpec{Position: kinematic.Vector{X: 500, Y: 500}, Radius: 10})
	frame, err = s.Tick(in, TickConfig{})
	require.NoError(t, err)
	assert.Equal(t, []collision.Pair{{A: s.Player(), B: near}}, frame.Collisions)
	assert.NotContains(t, frame.Colliding(), far)
	assert.Equal(t, uint64(2), frame.Tick)
	assert.Len(t, frame.Entities, 3)
	assert.Equal(t, 2, frame.Stats.Particles)
}

func TestSimulation_Tick_debugRegions(t *testing.T) {
	s := newTestSimulation(t, NewSimulationOptions{})
	in := TickInput{DeltaTime: constants.ParticleSpawnInterval, PlayerTarget: kinematic.Vector{X: 400, Y: 300}}

	frame, err := s.Tick(in, TickConfig{SpawnRate: 2000})
	require.NoError(t, err)
	assert.Nil(t, frame.Regions)
	assert.Equal(t, 100, frame.Stats.Spawned)
	assert.Equal(t, 100, frame.Stats.Particles)

	frame, err = s.Tick(in, TickConfig{SpawnRate: 2000, DebugEnabled: true})
	require.NoError(t, err)
	require.NotNil(t, frame.Regions)
	count := 0
	for range frame.Regions {
		count++
	}
	assert.Equal(t, frame.Stats.Tree.Nodes, count)
	assert.Greater(t, frame.Stats.Tree.Subdivisions, 0)
}

func TestSimulation_Tick_spawnRateIsCapped(t *testing.T) {
	s := newTestSimulation(t, NewSimulationOptions{})
	in := TickInput{DeltaTime: constants.ParticleSpawnInterval, PlayerTarget: kinematic.Vector{X: 400, Y: 300}}
	frame, err := s.Tick(in, TickConfig{SpawnRate: constants.MaxSpawnRate * 10})
	require.NoError(t, err)
	assert.Equal(t, int(float64(constants.MaxSpawnRate)*constants.ParticleSpawnInterval), frame.Stats.Spawned)
}

func TestSimulation_Tick_playerInput(t *testing.T) {
	tests := []struct {
		name        string
		target      kinematic.Vector
		radiusDelta float64
		wantPos     kinematic.Vector
		wantRadius  float64
	}{
		{name: "follow target", target: kinematic.Vector{X: 100, Y: 50}, wantPos: kinematic.Vector{X: 100, Y: 50}, wantRadius: 100},
		{name: "clamped to arena", target: kinematic.Vector{X: -10, Y: 900}, wantPos: kinematic.Vector{X: 0, Y: 600}, wantRadius: 100},
		{name: "grow", target: kinematic.Vector{X: 1, Y: 1}, radiusDelta: constants.PlayerRadiusStep, wantPos: kinematic.Vector{X: 1, Y: 1}, wantRadius: 105},
		{name: "shrink to minimum", target: kinematic.Vector{X: 1, Y: 1}, radiusDelta: -1000, wantPos: kinematic.Vector{X: 1, Y: 1}, wantRadius: constants.PlayerMinRadius},
		{name: "grow to maximum", target: kinematic.Vector{X: 1, Y: 1}, radiusDelta: 1000, wantPos: kinematic.Vector{X: 1, Y: 1}, wantRadius: constants.PlayerMaxRadius},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSimulation(t, NewSimulationOptions{})
			frame, err := s.Tick(TickInput{DeltaTime: 0.016, PlayerTarget: tt.target, PlayerRadiusDelta: tt.radiusDelta}, TickConfig{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPos, frame.Player.Position)
			assert.Equal(t, tt.wantRadius, frame.Player.Radius)
		})
	}
}

func TestSimulation_Tick_despawn(t *testing.T) {
	s := newTestSimulation(t, NewSimulationOptions{Boundary: entity.BoundaryDespawn})
	s.Registry().Add(entity.SpawnSpec{Position: kinematic.Vector{X: 10, Y: 599}, Radius: 1, Velocity: kinematic.Vector{Y: 300}})
	frame, err := s.Tick(TickInput{DeltaTime: 0.1, PlayerTarget: kinematic.Vector{X: 400, Y: 300}}, TickConfig{})
	require.NoError(t, err)
	assert.Equal(t, 1, frame.Stats.Despawned)
	assert.Equal(t, 0, frame.Stats.Particles)
}

func TestSimulation_Tick_responder(t *testing.T) {
	s := newTestSimulation(t, NewSimulationOptions{
		PlayerRadius: 50,
		Responder:    NewBounceResponder(1),
	})
	h := s.Registry().Add(entity.SpawnSpec{Position: kinematic.Vector{X: 420, Y: 300}, Radius: 1, Velocity: kinematic.Vector{X: -200}})

	frame, err := s.Tick(TickInput{DeltaTime: 0.01, PlayerTarget: kinematic.Vector{X: 400, Y: 300}}, TickConfig{})
	require.NoError(t, err)
	require.Len(t, frame.Collisions, 1)

	particle, ok := s.Registry().Get(h)
	require.True(t, ok)
	assert.InDelta(t, 51.0, particle.Position.Sub(kinematic.Vector{X: 400, Y: 300}).Length(), 1e-9)
	assert.Greater(t, particle.Velocity.X, 0.0, "particle bounces away from the player")
	assert.InDelta(t, constants.BounceMinSpeed, particle.Velocity.Length(), 1e-9)
}
