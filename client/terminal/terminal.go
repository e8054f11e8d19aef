package terminal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cbodonnell/quadsim/pkg/entity"
	"github.com/cbodonnell/quadsim/pkg/game"
	"github.com/cbodonnell/quadsim/pkg/game/constants"
	"github.com/cbodonnell/quadsim/pkg/game/types"
	"github.com/cbodonnell/quadsim/pkg/kinematic"
	"github.com/cbodonnell/quadsim/pkg/log"
	"github.com/cbodonnell/quadsim/pkg/queue"
	"github.com/gdamore/tcell/v2"
)

const (
	// DefaultEventQueueSize is the number of terminal events buffered between ticks
	DefaultEventQueueSize = 256
	// hudRows is the number of rows reserved below the arena
	hudRows = 1
)

var (
	styleRegion   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleParticle = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleHit      = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
)

// Terminal drives a Simulation inside a tcell screen. The arena is scaled to fit the
// screen with the last row used for the HUD.
type Terminal struct {
	screen       tcell.Screen
	simulation   *game.Simulation
	tickConfig   game.TickConfig
	events       *queue.InMemoryQueue[tcell.Event]
	loopInterval time.Duration

	target      kinematic.Vector
	radiusDelta float64
	quit        bool
	frame       *types.Frame
}

type NewTerminalOptions struct {
	// Screen must already be initialized
	Screen       tcell.Screen
	Simulation   *game.Simulation
	TickConfig   game.TickConfig
	LoopInterval time.Duration
}

func NewTerminal(opts NewTerminalOptions) *Terminal {
	interval := opts.LoopInterval
	if interval <= 0 {
		interval = time.Second / time.Duration(constants.TicksPerSecond)
	}
	return &Terminal{
		screen:       opts.Screen,
		simulation:   opts.Simulation,
		tickConfig:   opts.TickConfig,
		events:       queue.NewInMemoryQueue[tcell.Event](DefaultEventQueueSize),
		loopInterval: interval,
		target:       opts.Simulation.Arena().Center(),
	}
}

// Run polls terminal events in the background and ticks the simulation until the
// context is done or the player quits. The caller owns the screen and must call Fini
// afterwards, which also stops the event goroutine.
func (t *Terminal) Run(ctx context.Context) error {
	go t.pollEvents()

	ticker := time.NewTicker(t.loopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := t.step(); err != nil {
				return err
			}
			if t.quit {
				log.Info("Quit requested after %d ticks", t.frame.Tick)
				return nil
			}
		}
	}
}

func (t *Terminal) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		if err := t.events.Enqueue(ev); err != nil {
			if errors.Is(err, queue.ErrQueueFull) {
				log.Warn("Dropping terminal event: %v", err)
				continue
			}
			log.Error("Failed to enqueue terminal event: %v", err)
		}
	}
}

// step drains pending events, runs one tick and redraws the screen.
func (t *Terminal) step() error {
	pending, err := t.events.ReadAllMessages()
	if err != nil {
		return fmt.Errorf("failed to read terminal events: %v", err)
	}
	for _, ev := range pending {
		t.handleEvent(ev)
	}

	in := game.TickInput{
		DeltaTime:         t.loopInterval.Seconds(),
		PlayerTarget:      t.target,
		PlayerRadiusDelta: t.radiusDelta,
	}
	t.radiusDelta = 0

	frame, err := t.simulation.Tick(in, t.tickConfig)
	if err != nil {
		return fmt.Errorf("failed to tick simulation: %v", err)
	}
	t.frame = frame

	t.draw(frame)
	t.screen.Show()
	return nil
}

func (t *Terminal) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.target = t.cellToArena(x, y)
		buttons := ev.Buttons()
		if buttons&tcell.WheelUp != 0 {
			t.radiusDelta += constants.PlayerRadiusStep
		}
		if buttons&tcell.WheelDown != 0 {
			t.radiusDelta -= constants.PlayerRadiusStep
		}
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			t.quit = true
		case tcell.KeyUp:
			t.spawnRateUp()
		case tcell.KeyDown:
			t.spawnRateDown()
		case tcell.KeyRight:
			t.radiusDelta += constants.PlayerRadiusStep
		case tcell.KeyLeft:
			t.radiusDelta -= constants.PlayerRadiusStep
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				t.quit = true
			case ' ':
				t.tickConfig.DebugEnabled = !t.tickConfig.DebugEnabled
			case '+', '=':
				t.spawnRateUp()
			case '-', '_':
				t.spawnRateDown()
			case ']':
				t.radiusDelta += constants.PlayerRadiusStep
			case '[':
				t.radiusDelta -= constants.PlayerRadiusStep
			}
		}
	}
}

func (t *Terminal) spawnRateUp() {
	t.tickConfig.SpawnRate = min(t.tickConfig.SpawnRate+constants.SpawnRateStep, constants.MaxSpawnRate)
}

func (t *Terminal) spawnRateDown() {
	t.tickConfig.SpawnRate -= min(t.tickConfig.SpawnRate, constants.SpawnRateStep)
}

// viewport returns the number of columns and rows available to the arena.
func (t *Terminal) viewport() (int, int) {
	cols, rows := t.screen.Size()
	return max(cols, 1), max(rows-hudRows, 1)
}

// cellToArena maps the center of a screen cell to arena coordinates.
func (t *Terminal) cellToArena(col, row int) kinematic.Vector {
	cols, rows := t.viewport()
	arena := t.simulation.Arena()
	return kinematic.Vector{
		X: arena.X + (float64(col)+0.5)*arena.Width/float64(cols),
		Y: arena.Y + (float64(row)+0.5)*arena.Height/float64(rows),
	}
}

// arenaToCell maps arena coordinates to a screen cell. ok is false outside the viewport.
func (t *Terminal) arenaToCell(p kinematic.Vector) (col, row int, ok bool) {
	cols, rows := t.viewport()
	arena := t.simulation.Arena()
	col = int(math.Floor((p.X - arena.X) / arena.Width * float64(cols)))
	row = int(math.Floor((p.Y - arena.Y) / arena.Height * float64(rows)))
	return col, row, col >= 0 && col < cols && row >= 0 && row < rows
}

func (t *Terminal) setCell(p kinematic.Vector, r rune, style tcell.Style) {
	if col, row, ok := t.arenaToCell(p); ok {
		t.screen.SetContent(col, row, r, nil, style)
	}
}

func (t *Terminal) draw(frame *types.Frame) {
	t.screen.Clear()

	if frame.Regions != nil {
		for b := range frame.Regions {
			t.drawRegion(b.X, b.Y, b.MaxX(), b.MaxY())
		}
	}

	colliding := frame.Colliding()
	for _, e := range frame.Entities {
		if e.Kind != entity.KindParticle {
			continue
		}
		if _, ok := colliding[e.Handle]; ok {
			t.setCell(e.Position, '*', styleHit)
			continue
		}
		t.setCell(e.Position, '.', styleParticle)
	}

	t.drawPlayer(frame.Player)
	t.drawHUD(frame)
}

// drawRegion outlines a node. The max edges of the root fall just past the viewport
// and are pulled back onto the last column and row.
func (t *Terminal) drawRegion(minX, minY, maxX, maxY float64) {
	minCol, minRow, _ := t.arenaToCell(kinematic.Vector{X: minX, Y: minY})
	maxCol, maxRow, _ := t.arenaToCell(kinematic.Vector{X: maxX, Y: maxY})
	cols, rows := t.viewport()
	minCol, minRow = max(minCol, 0), max(minRow, 0)
	maxCol, maxRow = min(maxCol, cols-1), min(maxRow, rows-1)
	for col := minCol; col <= maxCol; col++ {
		t.screen.SetContent(col, minRow, '─', nil, styleRegion)
		t.screen.SetContent(col, maxRow, '─', nil, styleRegion)
	}
	for row := minRow; row <= maxRow; row++ {
		t.screen.SetContent(minCol, row, '│', nil, styleRegion)
		t.screen.SetContent(maxCol, row, '│', nil, styleRegion)
	}
}

func (t *Terminal) drawPlayer(player entity.Entity) {
	cols, rows := t.viewport()
	arena := t.simulation.Arena()
	cell := math.Min(arena.Width/float64(cols), arena.Height/float64(rows))
	steps := max(16, int(2*math.Pi*player.Radius/cell))
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		rim := player.Position.Add(kinematic.Vector{X: math.Cos(theta), Y: math.Sin(theta)}.Scale(player.Radius))
		t.setCell(rim, 'o', stylePlayer)
	}
	t.setCell(player.Position, '+', stylePlayer)
}

func (t *Terminal) drawHUD(frame *types.Frame) {
	cols, rows := t.screen.Size()
	text := fmt.Sprintf(" tick %d | rate %d/s | particles %d | hits %d | nodes %d | radius %.0f | debug %t | q quit",
		frame.Tick, t.tickConfig.SpawnRate, frame.Stats.Particles, len(frame.Collisions),
		frame.Stats.Tree.Nodes, frame.Player.Radius, t.tickConfig.DebugEnabled)
	drawText(t.screen, 0, rows-1, cols, text, styleHUD)
}
