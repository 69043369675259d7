package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/wallrun/common"
)

// WallRunState is the wall-run subsystem's data. Dir and Normal are fixed at
// entry, so the run line does not follow the camera.
type WallRunState struct {
	Active     bool
	Side       Side
	Elapsed    float64
	EntrySpeed float64
	Dir        mgl64.Vec3
	Normal     mgl64.Vec3

	// DashSpeed is extra run speed from a dash, held for the boost window.
	DashSpeed float64

	// locked sides cannot be re-entered until the player touches ground
	locked [3]bool
}

func (w *WallRunState) Locked(side Side) bool {
	return w.locked[side]
}

func (w *WallRunState) lock(side Side) {
	w.locked[side] = true
}

func (w *WallRunState) unlock() {
	w.locked = [3]bool{}
}

// canRun checks every entry requirement except the airborne one.
func (w *WallRunState) canRun(side Side, in Input, contact Contact, vel mgl64.Vec3, t Tuning) bool {
	if w.Active || w.Locked(side) || !in.HoldsWallKeys(side) {
		return false
	}
	if !contact.Valid || math.Abs(contact.Hit.Normal.Y()) >= t.WallMaxNormalY {
		return false
	}
	return common.HorizontalLen(vel) >= t.WallRunMinSpeed
}

// begin fixes the run line from the entry velocity projected onto the wall.
// It reports false when the player is moving straight into the wall.
func (w *WallRunState) begin(side Side, hit CollisionHit, vel mgl64.Vec3) bool {
	n, ok := common.Normalize(common.Horizontal(hit.Normal))
	if !ok {
		return false
	}
	h := common.Horizontal(vel)
	dir, ok := common.Normalize(common.ProjectOnPlane(h, n))
	if !ok {
		return false
	}
	w.Active = true
	w.Side = side
	w.Elapsed = 0
	w.EntrySpeed = h.Len()
	w.Dir = dir
	w.Normal = n
	w.DashSpeed = 0
	return true
}

func (w *WallRunState) end() {
	w.Active = false
	w.DashSpeed = 0
	w.lock(w.Side)
}

// advance moves the run clock forward, capped at the maximum duration.
func (w *WallRunState) advance(dt float64, t Tuning) {
	w.Elapsed += dt
	if w.Elapsed+common.Epsilon >= t.WallRunMaxTime {
		w.Elapsed = t.WallRunMaxTime
	}
}

func (w *WallRunState) expired(t Tuning) bool {
	return w.Elapsed >= t.WallRunMaxTime
}

// absorbDash keeps the part of a dashed velocity that runs along the wall.
// Anything beyond the run speed is carried while the dash boost lasts.
func (w *WallRunState) absorbDash(vel mgl64.Vec3, t Tuning) {
	along := common.Horizontal(vel).Dot(w.Dir)
	w.DashSpeed = math.Max(w.DashSpeed, along-t.WallRunSpeed)
}

// velocity holds horizontal speed on the run line and applies reduced gravity.
// boosted is whether the dash boost window is still open.
func (w *WallRunState) velocity(vy, dt float64, boosted bool, t Tuning) mgl64.Vec3 {
	if !boosted {
		w.DashSpeed = 0
	}
	vy -= t.Gravity * t.WallRunGravityScale * dt
	vy = common.Clamp(vy, -t.WallRunMaxFall, t.WallRunMaxRise)
	v := w.Dir.Mul(t.WallRunSpeed + w.DashSpeed)
	v[1] = vy
	return v
}

// adhesion is the positional press toward the wall for this frame. It never
// moves the body closer than the standoff distance.
func (w *WallRunState) adhesion(contact Contact, dt float64, t Tuning) mgl64.Vec3 {
	if !contact.Valid {
		return mgl64.Vec3{}
	}
	gap := contact.Hit.Distance - t.WallRunStandoff
	press := math.Min(t.WallRunAdhesion*dt, math.Max(0, gap))
	return w.Normal.Mul(-press)
}

// kick pushes off the wall along its normal and up.
func (w *WallRunState) kick(vel mgl64.Vec3, t Tuning) mgl64.Vec3 {
	vel = vel.Add(w.Normal.Mul(t.WallKickOutward))
	vel[1] += t.WallKickUp
	return vel
}
