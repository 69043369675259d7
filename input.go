package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/wallrun/common"
	"github.com/milk9111/wallrun/movement"
)

const (
	stickDeadzone = 0.2
	// turnRate is radians per second for arrow keys and the right stick.
	turnRate   = 2.5
	pitchLimit = math.Pi/2 - 0.05
)

// keyState is one frame of raw button state, before it becomes intent.
type keyState struct {
	forward, back, left, right bool

	sprint bool
	crouch bool
	jump   bool
	dash   bool
	shoot  bool
}

// axes turns the direction keys into strafe and forward axes. Opposite keys
// cancel.
func (k keyState) axes() (x, z float64) {
	if k.left {
		x--
	}
	if k.right {
		x++
	}
	if k.forward {
		z++
	}
	if k.back {
		z--
	}
	return x, z
}

// Input polls keyboard, mouse and the first gamepad and keeps the look angles
// between frames.
type Input struct {
	// Sensitivity is radians of turn per pixel of mouse travel.
	Sensitivity float64

	yaw   float64
	pitch float64

	lastX, lastY int
	primed       bool
}

func NewInput(yaw float64) *Input {
	return &Input{Sensitivity: 0.003, yaw: yaw}
}

func (i *Input) Yaw() float64   { return i.yaw }
func (i *Input) Pitch() float64 { return i.pitch }

// Unprime forgets the last cursor position so the next poll does not turn by
// however far the cursor moved while the game was paused.
func (i *Input) Unprime() { i.primed = false }

// Poll reads devices for one frame of length dt.
func (i *Input) Poll(dt float64) movement.Input {
	k := keyState{
		forward: ebiten.IsKeyPressed(ebiten.KeyW),
		back:    ebiten.IsKeyPressed(ebiten.KeyS),
		left:    ebiten.IsKeyPressed(ebiten.KeyA),
		right:   ebiten.IsKeyPressed(ebiten.KeyD),
		sprint:  ebiten.IsKeyPressed(ebiten.KeyShift),
		crouch:  ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyC),
		jump:    ebiten.IsKeyPressed(ebiten.KeySpace),
		dash:    ebiten.IsKeyPressed(ebiten.KeyE) || ebiten.IsKeyPressed(ebiten.KeyQ),
		shoot:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	}
	moveX, moveZ := k.axes()

	var turnX, turnY float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		turnX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		turnX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		turnY++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		turnY--
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			moveX, moveZ = lx, -ly
		}
		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			turnX, turnY = rx, -ry
		}

		k.jump = k.jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		k.crouch = k.crouch || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight)
		k.dash = k.dash || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft)
		k.sprint = k.sprint || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftStick)
		k.shoot = k.shoot || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
	}

	i.turn(turnX*turnRate*dt, turnY*turnRate*dt)

	cx, cy := ebiten.CursorPosition()
	if i.primed {
		i.turn(float64(cx-i.lastX)*i.Sensitivity, -float64(cy-i.lastY)*i.Sensitivity)
	}
	i.lastX, i.lastY, i.primed = cx, cy, true

	return intent(k, moveX, moveZ, i.yaw, i.pitch)
}

// turn adds to the look angles. Yaw wraps, pitch stops short of vertical.
func (i *Input) turn(dYaw, dPitch float64) {
	i.yaw = math.Remainder(i.yaw+dYaw, 2*math.Pi)
	i.pitch = common.Clamp(i.pitch+dPitch, -pitchLimit, pitchLimit)
}

func intent(k keyState, moveX, moveZ, yaw, pitch float64) movement.Input {
	return movement.Input{
		MoveX:  common.Clamp(moveX, -1, 1),
		MoveZ:  common.Clamp(moveZ, -1, 1),
		Yaw:    yaw,
		Pitch:  pitch,
		Sprint: k.sprint,
		Crouch: k.crouch,
		Jump:   k.jump,
		Dash:   k.dash,
		Shoot:  k.shoot,
	}
}
