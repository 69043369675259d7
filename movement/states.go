package movement

import (
	"math"

	"github.com/milk9111/wallrun/common"
)

// locomotionState is the behavior behind a Mode. Enter and Exit run on
// transitions; Update applies the mode's force contribution for one frame.
type locomotionState interface {
	Name() string
	Enter(ctx *stateContext)
	Exit(ctx *stateContext)
	Update(ctx *stateContext)
}

// stateContext is built once by the Controller and handed to every state.
// Input, Contacts and Dt are refreshed each frame.
type stateContext struct {
	Tuning   *Tuning
	Input    Input
	Contacts Contacts
	Dt       float64

	Kin    *Kinematics
	Dash   *DashState
	Slide  *SlideState
	Wall   *WallRunState
	Jump   *jumpState
	Camera *cameraTargets
}

type cameraTargets struct {
	Height float64
	Tilt   float64
}

// State singletons (avoid allocations on transitions).
var (
	stateGrounded locomotionState = &groundedState{}
	stateAirborne locomotionState = &airborneState{}
	stateSliding  locomotionState = &slidingState{}
	stateWallRun  locomotionState = &wallRunState{}
)

func stateFor(m Mode) locomotionState {
	switch m.(type) {
	case Grounded:
		return stateGrounded
	case Sliding:
		return stateSliding
	case WallRunning:
		return stateWallRun
	default:
		return stateAirborne
	}
}

type groundedState struct{}

type airborneState struct{}

type slidingState struct{}

type wallRunState struct{}

func (groundedState) Name() string { return "grounded" }
func (groundedState) Enter(ctx *stateContext) {
	ctx.Kin.Grounded = true
	ctx.Kin.Velocity[1] = 0
	ctx.Wall.unlock()
}
func (groundedState) Exit(ctx *stateContext) {}
func (groundedState) Update(ctx *stateContext) {
	t := ctx.Tuning
	v := common.Horizontal(ctx.Kin.Velocity)
	if dir, ok := ctx.Input.WishDir(); ok {
		v = v.Add(dir.Mul(t.Acceleration * ctx.Dt))
		v = common.ClampLen(v, t.GroundSpeedCap(ctx.Input.Sprint, ctx.Dash.Active()))
	} else {
		v = v.Mul(math.Exp(-t.Friction * ctx.Dt))
	}
	ctx.Kin.Velocity = v
	snapToGround(ctx)
}

func (airborneState) Name() string { return "airborne" }
func (airborneState) Enter(ctx *stateContext) {
	ctx.Kin.Grounded = false
}
func (airborneState) Exit(ctx *stateContext) {}
func (airborneState) Update(ctx *stateContext) {
	t := ctx.Tuning
	dt := ctx.Dt
	vel := ctx.Kin.Velocity

	vy := vel.Y() - t.Gravity*dt
	vy -= t.AirDrag * vy * dt
	if ctx.Jump.cut && vy > 0 && !ctx.Input.Jump {
		vy *= t.JumpCutMultiplier
		ctx.Jump.cut = false
	}
	if vy <= 0 {
		ctx.Jump.cut = false
	}

	h := common.Horizontal(vel)
	prev := h.Len()
	if dir, ok := ctx.Input.WishDir(); ok {
		h = h.Add(dir.Mul(t.Acceleration * t.AirControl * dt))
		// air control may steer but never adds speed past what the player already had
		h = common.ClampLen(h, math.Max(prev, t.GroundSpeedCap(ctx.Input.Sprint, ctx.Dash.Active())))
	}
	if speed := h.Len(); speed > 0 && t.AirFriction > 0 {
		h = h.Mul(math.Max(0, speed-t.AirFriction*dt) / speed)
	}

	h[1] = vy
	ctx.Kin.Velocity = h
}

func (slidingState) Name() string { return "sliding" }
func (slidingState) Enter(ctx *stateContext) {
	ctx.Slide.begin(ctx.Input.Forward(), *ctx.Tuning)
	ctx.Camera.Height = ctx.Tuning.SlideCameraHeight
	ctx.Kin.Grounded = true
	ctx.Kin.Velocity = ctx.Slide.velocity()
}
func (slidingState) Exit(ctx *stateContext) {
	ctx.Slide.end()
	ctx.Camera.Height = ctx.Tuning.CameraHeight
}
func (slidingState) Update(ctx *stateContext) {
	normal := common.Up
	if ctx.Contacts.Ground.Valid {
		normal = ctx.Contacts.Ground.Hit.Normal
	}
	ctx.Slide.step(normal, ctx.Dt, *ctx.Tuning)
	ctx.Kin.Velocity = ctx.Slide.velocity()
	snapToGround(ctx)
}

func (wallRunState) Name() string { return "wallrunning" }
func (wallRunState) Enter(ctx *stateContext) {
	ctx.Kin.Grounded = false
	ctx.Kin.WallSide = ctx.Wall.Side
	ctx.Kin.Velocity[1] = 0
	ctx.Camera.Tilt = ctx.Tuning.WallRunCameraTilt * ctx.Wall.Side.Sign()
}
func (wallRunState) Exit(ctx *stateContext) {
	ctx.Wall.end()
	ctx.Kin.WallSide = SideNone
	ctx.Camera.Tilt = 0
}
func (wallRunState) Update(ctx *stateContext) {
	t := *ctx.Tuning
	ctx.Kin.Velocity = ctx.Wall.velocity(ctx.Kin.Velocity.Y(), ctx.Dt, ctx.Dash.Active(), t)
	contact := ctx.Contacts.Wall(ctx.Wall.Side)
	ctx.Kin.Position = ctx.Kin.Position.Add(ctx.Wall.adhesion(contact, ctx.Dt, t))
}

// snapToGround keeps grounded modes glued to the probed surface.
func snapToGround(ctx *stateContext) {
	if !ctx.Contacts.Ground.Valid {
		return
	}
	ctx.Kin.Position[1] = ctx.Contacts.Ground.Hit.Point.Y()
}
