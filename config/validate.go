package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/milk9111/wallrun/session"
)

// ErrInvalid wraps every validation failure returned by Validate.
var ErrInvalid = errors.New("config: invalid settings")

type checker struct {
	errs []error
}

func (c *checker) fail(field, format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf("%w: %s %s", ErrInvalid, field, fmt.Sprintf(format, args...)))
}

func (c *checker) positive(field string, v float64) {
	if !(v > 0) || math.IsInf(v, 0) {
		c.fail(field, "must be positive, got %v", v)
	}
}

func (c *checker) nonNegative(field string, v float64) {
	if !(v >= 0) || math.IsInf(v, 0) {
		c.fail(field, "must be >= 0, got %v", v)
	}
}

func (c *checker) within(field string, v, lo, hi float64) {
	if !(v >= lo && v <= hi) {
		c.fail(field, "must be in [%v, %v], got %v", lo, hi, v)
	}
}

func (c *checker) atLeast(field string, v, floor float64, floorName string) {
	if !(v >= floor) {
		c.fail(field, "must be >= %s (%v), got %v", floorName, floor, v)
	}
}

// Validate reports every out-of-range value at once.
func (s Settings) Validate() error {
	var c checker

	c.positive("body.height", s.Body.Height)
	c.positive("body.radius", s.Body.Radius)
	c.nonNegative("body.step_offset", s.Body.StepOffset)
	c.nonNegative("body.collision_buffer", s.Body.CollisionBuffer)
	if s.Body.StepOffset >= s.Body.Height {
		c.fail("body.step_offset", "must be below body.height")
	}

	c.positive("movement.acceleration", s.Movement.Acceleration)
	c.nonNegative("movement.friction", s.Movement.Friction)
	c.positive("movement.max_speed", s.Movement.MaxSpeed)
	c.atLeast("movement.sprint_multiplier", s.Movement.SprintMultiplier, 1, "1")
	c.atLeast("movement.speed_cap", s.Movement.SpeedCap, s.Movement.MaxSpeed*s.Movement.SprintMultiplier, "max_speed*sprint_multiplier")
	c.positive("movement.gravity", s.Movement.Gravity)
	c.within("movement.air_control", s.Movement.AirControl, 0, 1)
	c.nonNegative("movement.air_friction", s.Movement.AirFriction)
	c.nonNegative("movement.air_drag", s.Movement.AirDrag)

	c.positive("jump.height", s.Jump.Height)
	c.nonNegative("jump.buffer_time", s.Jump.BufferTime)
	c.nonNegative("jump.coyote_time", s.Jump.CoyoteTime)
	c.within("jump.cut_multiplier", s.Jump.CutMultiplier, 0, 1)

	c.within("probe.ground_min_normal_y", s.Probe.GroundMinNormalY, 0, 1)
	c.nonNegative("probe.ground_snap_distance", s.Probe.GroundSnapDistance)
	c.positive("probe.wall_distance", s.Probe.WallDistance)
	c.within("probe.wall_max_normal_y", s.Probe.WallMaxNormalY, 0, 1)
	if len(s.Probe.WallHeights) == 0 {
		c.fail("probe.wall_heights", "must list at least one height")
	}
	for i, h := range s.Probe.WallHeights {
		c.within(fmt.Sprintf("probe.wall_heights[%d]", i), h, 0, s.Body.Height)
	}
	if s.Probe.SlideIterations < 1 {
		c.fail("probe.slide_iterations", "must be at least 1, got %d", s.Probe.SlideIterations)
	}

	c.nonNegative("slide.min_entry_speed", s.Slide.MinEntrySpeed)
	c.positive("slide.start_speed", s.Slide.StartSpeed)
	c.nonNegative("slide.friction", s.Slide.Friction)
	c.nonNegative("slide.min_speed", s.Slide.MinSpeed)
	if s.Slide.MinSpeed >= s.Slide.StartSpeed {
		c.fail("slide.min_speed", "must be below slide.start_speed")
	}
	c.nonNegative("slide.slope_gravity", s.Slide.SlopeGravity)
	c.nonNegative("slide.steer_rate", s.Slide.SteerRate)
	c.nonNegative("slide.cooldown", s.Slide.Cooldown)
	c.within("slide.min_normal_y", s.Slide.MinNormalY, 0, s.Probe.GroundMinNormalY)

	c.positive("wallrun.speed", s.WallRun.Speed)
	c.nonNegative("wallrun.min_speed", s.WallRun.MinSpeed)
	c.positive("wallrun.max_time", s.WallRun.MaxTime)
	c.within("wallrun.gravity_scale", s.WallRun.GravityScale, 0, 1)
	c.nonNegative("wallrun.max_fall", s.WallRun.MaxFall)
	c.nonNegative("wallrun.max_rise", s.WallRun.MaxRise)
	c.nonNegative("wallrun.adhesion", s.WallRun.Adhesion)
	c.nonNegative("wallrun.standoff", s.WallRun.Standoff)
	if s.WallRun.Standoff >= s.Probe.WallDistance {
		c.fail("wallrun.standoff", "must be inside probe.wall_distance")
	}
	c.nonNegative("wallrun.kick_outward", s.WallRun.KickOutward)
	c.nonNegative("wallrun.kick_up", s.WallRun.KickUp)

	c.positive("dash.force", s.Dash.Force)
	c.nonNegative("dash.horizontal_scale", s.Dash.HorizontalScale)
	c.nonNegative("dash.vertical_scale", s.Dash.VerticalScale)
	c.within("dash.ground_vertical_factor", s.Dash.GroundVerticalFactor, 0, 1)
	c.within("dash.air_vertical_factor", s.Dash.AirVerticalFactor, 0, 1)
	c.positive("dash.max_vertical_speed", s.Dash.MaxVerticalSpeed)
	c.nonNegative("dash.cooldown", s.Dash.Cooldown)
	c.nonNegative("dash.boost_duration", s.Dash.BoostDuration)
	c.atLeast("dash.multiplier", s.Dash.Multiplier, 1, "1")

	c.positive("camera.height", s.Camera.Height)
	c.within("camera.slide_height", s.Camera.SlideHeight, 0, s.Camera.Height)
	c.within("camera.wallrun_tilt", s.Camera.WallRunTilt, 0, 90)
	c.nonNegative("camera.smoothing", s.Camera.Smoothing)
	if !session.KnownEasing(s.Camera.Easing) {
		c.fail("camera.easing", "unknown easing %q", s.Camera.Easing)
	}

	c.nonNegative("recoil.vertical", s.Recoil.Vertical)
	c.nonNegative("recoil.recovery_rate", s.Recoil.RecoveryRate)
	c.nonNegative("recoil.hold", s.Recoil.Hold)
	c.nonNegative("recoil.moving_speed", s.Recoil.MovingSpeed)
	m := s.Recoil.Multipliers
	c.nonNegative("recoil.multipliers.standing", m.Standing)
	c.nonNegative("recoil.multipliers.moving", m.Moving)
	c.nonNegative("recoil.multipliers.sliding", m.Sliding)
	c.nonNegative("recoil.multipliers.wallrunning", m.WallRunning)
	c.nonNegative("recoil.multipliers.airborne", m.Airborne)

	return errors.Join(c.errs...)
}
