package constants

const (

	// ArenaWidth is the default width of the arena
	ArenaWidth float64 = 1000.0
	// ArenaHeight is the default height of the arena
	ArenaHeight float64 = 600.0

	// NodeCapacity is the number of entities a quadtree leaf holds before subdividing
	NodeCapacity int = 10
	// NodeMaxDepth is the depth at which quadtree leaves stop subdividing
	NodeMaxDepth int = 8
	// GridCellSize is the cell size of the grid broad phase
	GridCellSize int = 32

	// ParticleSpawnInterval is the time between spawn batches
	ParticleSpawnInterval float64 = 0.05 // seconds
	// DefaultSpawnRate is the number of particles spawned per second
	DefaultSpawnRate uint32 = 2000
	// SpawnRateStep is how much a single key press changes the spawn rate
	SpawnRateStep uint32 = 100
	// MaxSpawnRate caps the spawn rate to keep the tree rebuild bounded
	MaxSpawnRate uint32 = 10000
	// ParticleRadius is the radius of spawned particles
	ParticleRadius float64 = 1.0
	// ParticleMinSpeed is the slowest initial falling speed
	ParticleMinSpeed float64 = 100.0
	// ParticleMaxSpeed is the fastest initial falling speed
	ParticleMaxSpeed float64 = 300.0
	// ParticleGravity is the downward acceleration of particles
	ParticleGravity float64 = 500.0
	// WindStrength is the largest horizontal speed given to spawned particles
	WindStrength float64 = 40.0
	// WindFrequency scales how fast the wind noise changes over time
	WindFrequency float64 = 0.5

	// PlayerRadius is the starting radius of the player
	PlayerRadius float64 = 100.0
	// PlayerMinRadius is the smallest radius the player can shrink to
	PlayerMinRadius float64 = 30.0
	// PlayerMaxRadius is the largest radius the player can grow to
	PlayerMaxRadius float64 = 300.0
	// PlayerRadiusStep is how much a single wheel notch changes the player radius
	PlayerRadiusStep float64 = 5.0

	// BounceRestitution scales particle speed after bouncing off the player
	BounceRestitution float64 = 0.3
	// BounceMinSpeed is the minimum speed of a particle after bouncing off the player
	BounceMinSpeed float64 = 100.0
	// BounceAngleJitter is the largest random rotation applied to a bounce, in radians
	BounceAngleJitter float64 = 0.1

	// TicksPerSecond is the simulation rate of the clients
	TicksPerSecond int = 60
	// StatsLogInterval is the number of ticks between stats log lines
	StatsLogInterval uint64 = 120
)
