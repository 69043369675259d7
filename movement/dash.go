package movement

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/wallrun/common"
)

// DashState tracks the dash cooldown and the boost window that raises the speed cap.
type DashState struct {
	Cooldown float64
	Boost    float64
}

func (d *DashState) advance(dt float64) {
	d.Cooldown = common.Countdown(d.Cooldown, dt)
	d.Boost = common.Countdown(d.Boost, dt)
}

func (d DashState) Ready() bool  { return d.Cooldown == 0 }
func (d DashState) Active() bool { return d.Boost > 0 }

// Multiplier is the speed cap multiplier currently in effect.
func (d DashState) Multiplier(t Tuning) float64 {
	if d.Active() {
		return t.DashMultiplier
	}
	return 1
}

// BoostFraction is the remaining share of the boost window in [0, 1].
func (d DashState) BoostFraction(t Tuning) float64 {
	if t.DashBoostDuration <= 0 {
		return 0
	}
	return common.Clamp(d.Boost/t.DashBoostDuration, 0, 1)
}

func (d *DashState) start(t Tuning) {
	d.Cooldown = t.DashCooldown
	d.Boost = t.DashBoostDuration
}

// dashVelocity adds a dash impulse along look to vel. Horizontal force is
// boosted; vertical force is reduced, and on the ground only an upward look
// contributes so a dash cannot drive the player into the floor.
func dashVelocity(vel, look mgl64.Vec3, grounded bool, t Tuning) mgl64.Vec3 {
	if h, ok := common.Normalize(common.Horizontal(look)); ok {
		vel = vel.Add(h.Mul(t.DashForce * t.DashHorizontalScale))
	}

	vertical := look.Y() * t.DashForce * t.DashVerticalScale
	if grounded {
		if look.Y() > 0 {
			vel[1] += vertical * t.DashGroundVerticalFactor
		}
		return vel
	}

	vel[1] += vertical * t.DashAirVerticalFactor
	vel[1] = common.Clamp(vel.Y(), -t.DashMaxVerticalSpeed, t.DashMaxVerticalSpeed)
	return vel
}

