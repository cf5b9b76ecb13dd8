package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/labyrinth-go/labyrinth/common"
)

const (
	// tiltRamp is how fast held keys tip the virtual board per frame.
	tiltRamp = 0.08
	// tiltRelax pulls the virtual board back to level when released.
	tiltRelax = 0.90
	// stickDeadzone ignores gamepad stick noise near center.
	stickDeadzone = 0.15
)

// Input converts keyboard and gamepad state into the tilt vector the
// simulation consumes. Axis mapping to the device frame lives here, not
// in the core. Tilt components stay in [-1, 1].
type Input struct {
	tilt common.Vec2
}

func NewInput() *Input {
	return &Input{}
}

// Update polls input devices for one frame.
func (i *Input) Update() {
	var dir common.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		dir.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		dir.X += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		dir.Y -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		dir.Y += 1
	}

	// Gamepad left stick, if one is attached, overrides the keyboard ramp
	// with an absolute tilt.
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		id := ids[0]
		sx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		sy := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if abs(sx) > stickDeadzone || abs(sy) > stickDeadzone {
			i.tilt = common.Vec2{X: sx, Y: sy}
			return
		}
	}

	if dir.X == 0 {
		i.tilt.X *= tiltRelax
	} else {
		i.tilt.X = common.Clamp(i.tilt.X+dir.X*tiltRamp, -1, 1)
	}
	if dir.Y == 0 {
		i.tilt.Y *= tiltRelax
	} else {
		i.tilt.Y = common.Clamp(i.tilt.Y+dir.Y*tiltRamp, -1, 1)
	}
}

// Tilt returns the current virtual tilt sample.
func (i *Input) Tilt() common.Vec2 {
	return i.tilt
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
