package movement

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/wallrun/common"
)

// Input is one frame of already-sanitized player intent.
type Input struct {
	// MoveX is strafe (-1 left, +1 right), MoveZ is forward/back (+1 forward).
	MoveX float64
	MoveZ float64

	// Yaw and Pitch are the camera angles in radians. Positive pitch looks up.
	Yaw   float64
	Pitch float64

	Sprint bool
	Crouch bool
	Jump   bool
	Dash   bool
	Shoot  bool
}

func (in Input) Forward() mgl64.Vec3 { return common.Forward(in.Yaw) }
func (in Input) Right() mgl64.Vec3   { return common.Right(in.Yaw) }
func (in Input) Look() mgl64.Vec3    { return common.Look(in.Yaw, in.Pitch) }

func (in Input) HasMove() bool {
	return in.MoveX != 0 || in.MoveZ != 0
}

// WishDir is the normalized horizontal world direction of the movement axes.
func (in Input) WishDir() (mgl64.Vec3, bool) {
	if !in.HasMove() {
		return mgl64.Vec3{}, false
	}
	dir := in.Forward().Mul(in.MoveZ).Add(in.Right().Mul(in.MoveX))
	return common.Normalize(dir)
}

// HoldsWallKeys reports whether forward plus the key toward side are held.
// The side key alone is not enough.
func (in Input) HoldsWallKeys(side Side) bool {
	if in.MoveZ <= 0 {
		return false
	}
	switch side {
	case SideLeft:
		return in.MoveX < 0
	case SideRight:
		return in.MoveX > 0
	default:
		return false
	}
}
