package game

import (
	"fmt"

	"github.com/cbodonnell/quadsim/client/input"
	"github.com/cbodonnell/quadsim/client/objects"
	"github.com/cbodonnell/quadsim/pkg/game"
	"github.com/cbodonnell/quadsim/pkg/game/constants"
	"github.com/cbodonnell/quadsim/pkg/game/types"
	"github.com/cbodonnell/quadsim/pkg/kinematic"
	"github.com/cbodonnell/quadsim/pkg/log"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/colornames"
)

// Game implements ebiten.Game interface, which has Update, Draw and Layout methods.
type Game struct {
	// simulation is the simulation driven once per Update.
	simulation *game.Simulation
	// tickConfig holds the switches toggled from the keyboard.
	tickConfig game.TickConfig
	// root holds the drawable objects sorted by z-index.
	root *objects.SortedZIndexObject
	// frame is the last frame produced by the simulation.
	frame *types.Frame
}

type NewGameOptions struct {
	Simulation *game.Simulation
	TickConfig game.TickConfig
}

func NewGame(opts NewGameOptions) (*Game, error) {
	g := &Game{
		simulation: opts.Simulation,
		tickConfig: opts.TickConfig,
		root:       objects.NewSortedZIndexObject("root"),
	}

	children := []objects.GameObject{
		objects.NewRegionsObject(0),
		objects.NewParticlesObject(1),
		objects.NewPlayerObject(2),
		objects.NewHUDObject(3,
			func() uint32 { return g.tickConfig.SpawnRate },
			func() bool { return g.tickConfig.DebugEnabled },
		),
	}
	for _, child := range children {
		if err := g.root.AddChild(child); err != nil {
			return nil, fmt.Errorf("failed to add %s: %v", child.GetID(), err)
		}
	}

	return g, nil
}

func (g *Game) Update() error {
	if input.IsQuitJustPressed() {
		return ebiten.Termination
	}
	g.handleInput()

	x, y := input.CursorPosition()
	in := game.TickInput{
		DeltaTime:         1.0 / float64(ebiten.TPS()),
		PlayerTarget:      kinematic.Vector{X: x, Y: y},
		PlayerRadiusDelta: g.radiusDelta(),
	}
	frame, err := g.simulation.Tick(in, g.tickConfig)
	if err != nil {
		return fmt.Errorf("failed to tick simulation: %v", err)
	}
	g.frame = frame

	if frame.Tick%constants.StatsLogInterval == 0 {
		log.Debug("Tick %d: %d particles, %d collisions, %d nodes", frame.Tick, frame.Stats.Particles, len(frame.Collisions), frame.Stats.Tree.Nodes)
	}

	if err := g.root.Update(frame); err != nil {
		return fmt.Errorf("failed to update objects: %v", err)
	}
	return nil
}

func (g *Game) handleInput() {
	if input.IsDebugToggleJustPressed() {
		g.tickConfig.DebugEnabled = !g.tickConfig.DebugEnabled
		log.Debug("Debug regions enabled: %t", g.tickConfig.DebugEnabled)
	}
	if input.IsSpawnRateUpJustPressed() {
		g.tickConfig.SpawnRate = min(g.tickConfig.SpawnRate+constants.SpawnRateStep, constants.MaxSpawnRate)
		log.Debug("Spawn rate set to %d", g.tickConfig.SpawnRate)
	}
	if input.IsSpawnRateDownJustPressed() {
		g.tickConfig.SpawnRate -= min(g.tickConfig.SpawnRate, constants.SpawnRateStep)
		log.Debug("Spawn rate set to %d", g.tickConfig.SpawnRate)
	}
}

// radiusDelta combines the wheel with the grow and shrink keys.
func (g *Game) radiusDelta() float64 {
	delta := input.WheelY() * constants.PlayerRadiusStep
	if input.IsGrowPressed() {
		delta += constants.PlayerRadiusStep
	}
	if input.IsShrinkPressed() {
		delta -= constants.PlayerRadiusStep
	}
	return delta
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	g.root.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	arena := g.simulation.Arena()
	return int(arena.Width), int(arena.Height)
}
