package game

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/game/constants"
	"github.com/cbodonnell/quadsim/pkg/kinematic"
)

const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3
)

// Spawner drops particles from the top edge of the arena in fixed-interval batches.
// Each particle gets a falling speed and a horizontal drift sampled from Perlin noise,
// so neighbouring particles drift together.
type Spawner struct {
	rng     *rand.Rand
	noise   *perlin.Perlin
	elapsed float64
	clock   float64
}

func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:   rand.New(rand.NewSource(seed)),
		noise: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed),
	}
}

// Spawn advances the spawn clock by dt and adds a batch to reg when an interval has
// elapsed. It returns the number of particles added.
func (s *Spawner) Spawn(reg *entity.Registry, dt float64, rate uint32) int {
	s.elapsed += dt
	s.clock += dt
	if s.elapsed < constants.ParticleSpawnInterval {
		return 0
	}
	s.elapsed = 0

	count := int(float64(rate) * constants.ParticleSpawnInterval)
	arena := reg.Arena()
	for i := 0; i < count; i++ {
		x := arena.X + s.rng.Float64()*arena.Width
		wind := s.noise.Noise1D(s.clock*constants.WindFrequency+(x-arena.X)/arena.Width) * constants.WindStrength
		speed := constants.ParticleMinSpeed + s.rng.Float64()*(constants.ParticleMaxSpeed-constants.ParticleMinSpeed)
		reg.Add(entity.SpawnSpec{
			Kind:         entity.KindParticle,
			Position:     kinematic.Vector{X: x, Y: arena.Y},
			Radius:       constants.ParticleRadius,
			Velocity:     kinematic.Vector{X: wind, Y: speed},
			Acceleration: kinematic.Vector{X: 0, Y: constants.ParticleGravity},
		})
	}
	return count
}
