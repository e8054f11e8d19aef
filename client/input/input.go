package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// CursorPosition returns the pointer position, preferring the first active touch.
func CursorPosition() (float64, float64) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return float64(x), float64(y)
	}
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}

// WheelY returns the vertical wheel movement since the last tick.
func WheelY() float64 {
	_, y := ebiten.Wheel()
	return y
}

func IsDebugToggleJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeySpace)
}

func IsSpawnRateUpJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyUp) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEqual) ||
		inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd)
}

func IsSpawnRateDownJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyDown) ||
		inpututil.IsKeyJustPressed(ebiten.KeyMinus) ||
		inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract)
}

func IsGrowPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyRight)
}

func IsShrinkPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyLeft)
}

// IsQuitJustPressed returns a boolean value indicating whether the player asked to leave.
func IsQuitJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}
