package movement

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/wallrun/common"
)

// Kinematics is the player's physical state. Position is at the feet.
// WallContact is set whenever a wall is within reach on either side;
// WallSide names the wall being run on and is SideNone otherwise.
type Kinematics struct {
	Position    mgl64.Vec3
	Velocity    mgl64.Vec3
	Grounded    bool
	WallContact bool
	WallSide    Side
}

func (k Kinematics) HorizontalSpeed() float64 {
	return common.HorizontalLen(k.Velocity)
}

// Snapshot is the read-only view published after every tick.
type Snapshot struct {
	Frame uint64
	Mode  Mode
	Kinematics

	// CameraHeight and CameraTilt are targets for an external camera lerp.
	// Tilt is in degrees, positive leaning right.
	CameraHeight float64
	CameraTilt   float64

	DashActive        bool
	DashBoostFraction float64
	DashCooldown      float64

	SlideSpeed     float64
	WallRunElapsed float64

	// Transitioned is set when Mode changed during the tick.
	Transitioned bool
	PrevMode     Mode
}
