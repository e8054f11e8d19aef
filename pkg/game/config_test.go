package game

import (
	"flag"
	"testing"

	"github.com/cbodonnell/quadsim/pkg/collision"
	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/game/constants"
	"github.com/cbodonnell/quadsim/pkg/quadtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T, args ...string) Config {
	t.Helper()
	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return c
}

func TestConfig_defaults(t *testing.T) {
	c := parseConfig(t)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, constants.ArenaWidth, c.Width)
	assert.Equal(t, constants.ArenaHeight, c.Height)
	assert.Equal(t, constants.NodeCapacity, c.Capacity)
	assert.Equal(t, BroadPhaseQuadtree, c.BroadPhase)
	assert.Equal(t, "despawn", c.Boundary)
	assert.Equal(t, TickConfig{SpawnRate: constants.DefaultSpawnRate}, c.TickConfig())
}

func TestConfig_TickConfig_capsSpawnRate(t *testing.T) {
	c := parseConfig(t, "-spawn-rate", "50000", "-debug")
	assert.Equal(t, TickConfig{DebugEnabled: true, SpawnRate: constants.MaxSpawnRate}, c.TickConfig())
}

func TestConfig_ResolveSeed(t *testing.T) {
	c := parseConfig(t, "-seed", "7")
	t.Setenv(SeedEnvVar, "42")
	require.NoError(t, c.ResolveSeed())
	assert.Equal(t, int64(7), c.Seed, "flag wins over the environment")

	c = parseConfig(t)
	require.NoError(t, c.ResolveSeed())
	assert.Equal(t, int64(42), c.Seed)

	t.Setenv(SeedEnvVar, "not-a-number")
	c = parseConfig(t)
	assert.Error(t, c.ResolveSeed())
}

func TestNewBroadPhase(t *testing.T) {
	arena := quadtree.MustNewBounds(0, 0, 100, 100)

	broad, err := NewBroadPhase(BroadPhaseQuadtree, arena, quadtree.Options{}, 0)
	require.NoError(t, err)
	assert.IsType(t, &collision.QuadtreeBroadPhase{}, broad)

	broad, err = NewBroadPhase(BroadPhaseGrid, arena, quadtree.Options{}, 16)
	require.NoError(t, err)
	assert.IsType(t, &collision.GridBroadPhase{}, broad)

	_, err = NewBroadPhase("octree", arena, quadtree.Options{}, 0)
	assert.ErrorIs(t, err, ErrUnknownBroadPhase)

	_, err = NewBroadPhase(BroadPhaseQuadtree, arena, quadtree.Options{Capacity: -1}, 0)
	assert.ErrorIs(t, err, quadtree.ErrInvalidCapacity)
}

func TestNewSimulationFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "defaults"},
		{name: "grid and bounce", args: []string{"-broadphase", "grid", "-boundary", "bounce"}},
		{name: "invalid arena", args: []string{"-width", "0"}, wantErr: true},
		{name: "invalid boundary", args: []string{"-boundary", "wrap"}, wantErr: true},
		{name: "invalid broad phase", args: []string{"-broadphase", "bvh"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parseConfig(t, tt.args...)
			s, err := NewSimulationFromConfig(c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			policy, _ := entity.ParseBoundaryPolicy(c.Boundary)
			assert.Equal(t, policy, s.Registry().Policy())
			assert.Equal(t, quadtree.MustNewBounds(0, 0, c.Width, c.Height), s.Arena())
		})
	}
}
