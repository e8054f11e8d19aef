package objects

import (
	"fmt"

	"github.com/cbodonnell/quadsim/pkg/game/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// HUDObject prints the frame counters in the top left corner.
type HUDObject struct {
	*BaseObject

	spawnRate func() uint32
	debug     func() bool
	text      string
}

var _ GameObject = &HUDObject{}

// NewHUDObject creates a HUD reading the host-controlled settings through the given funcs.
func NewHUDObject(zIndex int, spawnRate func() uint32, debug func() bool) *HUDObject {
	return &HUDObject{
		BaseObject: NewBaseObject("hud", zIndex),
		spawnRate:  spawnRate,
		debug:      debug,
	}
}

func (o *HUDObject) Update(frame *types.Frame) error {
	o.text = FormatHUD(frame, o.spawnRate(), o.debug(), ebiten.ActualFPS())
	return nil
}

func (o *HUDObject) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, o.text)
}

// FormatHUD renders the HUD lines for a frame.
func FormatHUD(frame *types.Frame, spawnRate uint32, debug bool, fps float64) string {
	return fmt.Sprintf(
		"FPS: %0.1f\nSpawn rate: %d/s\nParticles: %d\nCollisions: %d\nCandidates: %d\nNodes: %d (depth %d)\nRadius: %0.0f\nDebug: %t",
		fps,
		spawnRate,
		frame.Stats.Particles,
		len(frame.Collisions),
		frame.Stats.Candidates,
		frame.Stats.Tree.Nodes,
		frame.Stats.Tree.MaxDepth,
		frame.Player.Radius,
		debug,
	)
}
