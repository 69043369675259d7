package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/wallrun/common"
)

// Controller is the locomotion state machine. It owns the player kinematics
// and every subsystem state; other components only see Snapshots.
type Controller struct {
	tuning Tuning
	probe  *Probe

	mode Mode
	kin  Kinematics

	dash   DashState
	slide  SlideState
	wall   WallRunState
	jump   jumpState
	camera cameraTargets

	ctx      stateContext
	dashHeld bool
	frame    uint64
	snap     Snapshot

	onTransition func(from, to Mode)
}

// New builds a Controller at spawn. rc may be nil, in which case the player
// never touches anything.
func New(tuning Tuning, rc Raycaster, spawn mgl64.Vec3) *Controller {
	c := &Controller{
		tuning: tuning,
		probe:  NewProbe(rc, tuning),
		mode:   Airborne{},
		kin:    Kinematics{Position: spawn},
		camera: cameraTargets{Height: tuning.CameraHeight},
	}
	c.ctx = stateContext{
		Tuning: &c.tuning,
		Kin:    &c.kin,
		Dash:   &c.dash,
		Slide:  &c.slide,
		Wall:   &c.wall,
		Jump:   &c.jump,
		Camera: &c.camera,
	}

	if ground := c.probe.Ground(spawn); ground.Valid && c.probe.IsGround(ground.Hit.Normal) {
		c.ctx.Contacts.Ground = ground
		c.mode = Grounded{}
		c.kin.Position[1] = ground.Hit.Point.Y()
	}
	stateFor(c.mode).Enter(&c.ctx)
	c.publish(c.mode)
	return c
}

// OnTransition registers a callback invoked for every mode change.
func (c *Controller) OnTransition(fn func(from, to Mode)) {
	c.onTransition = fn
}

func (c *Controller) Mode() Mode             { return c.mode }
func (c *Controller) Kinematics() Kinematics { return c.kin }
func (c *Controller) Snapshot() Snapshot     { return c.snap }
func (c *Controller) Tuning() Tuning         { return c.tuning }
func (c *Controller) Probe() *Probe          { return c.probe }

// Tick probes the world through the controller's raycaster and advances one frame.
func (c *Controller) Tick(dt float64, in Input) Snapshot {
	contacts := c.probe.Contacts(c.kin.Position, in.Yaw)
	if c.wall.Active {
		// keep following the wall we entered on, whatever the camera does
		contacts.setWall(c.wall.Side, c.probe.Wall(c.kin.Position, c.wall.Normal.Mul(-1)))
	}
	return c.TickWithContacts(dt, in, contacts)
}

// TickWithContacts advances one frame using caller-supplied contacts.
// Malformed contacts read as no contact. A non-positive or non-finite dt is ignored.
func (c *Controller) TickWithContacts(dt float64, in Input, contacts Contacts) Snapshot {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return c.snap
	}
	c.frame++
	prev := c.mode

	c.advanceTimers(dt)
	c.jump.press(in, c.tuning)

	c.ctx.Input = in
	c.ctx.Contacts = contacts.Sanitized()
	c.ctx.Dt = dt

	if soft := c.evaluateGuards(); !soft {
		stateFor(c.mode).Update(&c.ctx)
	}

	if in.Dash && !c.dashHeld {
		c.TryDash(in.Look())
	}
	c.dashHeld = in.Dash

	c.clampSpeed()
	c.integrate(dt)
	c.publish(prev)
	return c.snap
}

// TryDash fires a dash along look. It reports false, and changes nothing,
// while the cooldown is running or look is degenerate.
func (c *Controller) TryDash(look mgl64.Vec3) bool {
	if !c.dash.Ready() {
		return false
	}
	look, ok := common.Normalize(look)
	if !ok {
		return false
	}

	kind := c.mode.Kind()
	grounded := kind == KindGrounded || kind == KindSliding
	c.kin.Velocity = dashVelocity(c.kin.Velocity, look, grounded, c.tuning)
	c.dash.start(c.tuning)

	switch kind {
	case KindSliding:
		c.slide.redirect(c.kin.Velocity)
	case KindWallRunning:
		c.wall.absorbDash(c.kin.Velocity, c.tuning)
	}
	c.snap.DashActive = c.dash.Active()
	c.snap.DashBoostFraction = c.dash.BoostFraction(c.tuning)
	c.snap.DashCooldown = c.dash.Cooldown
	return true
}

func (c *Controller) advanceTimers(dt float64) {
	c.dash.advance(dt)
	c.slide.advance(dt)
	c.jump.advance(dt)
	if c.wall.Active {
		c.wall.advance(dt, c.tuning)
	}
}

// standing reports whether the probed ground supports the player this frame.
func (c *Controller) standing(minNormalY float64) bool {
	g := c.ctx.Contacts.Ground
	if !g.Valid || g.Hit.Normal.Y() < minNormalY {
		return false
	}
	return c.kin.Velocity.Y() <= common.Epsilon
}

// evaluateGuards runs the transition guards in fixed priority order:
// wall-run exit, wall-run entry, slide exit, slide entry, grounded/airborne.
// soft is true when a wall run ended without a kick and the player is left
// airborne; that tick keeps its velocity as it was.
func (c *Controller) evaluateGuards() (soft bool) {
	t := c.tuning
	in := c.ctx.Input
	grounded := c.standing(t.GroundMinNormalY)

	if wr, ok := c.mode.(WallRunning); ok {
		contact := c.ctx.Contacts.Wall(wr.Side)
		switch {
		case grounded:
			c.changeMode(Grounded{})
		case c.jump.buffered():
			c.kin.Velocity = c.wall.kick(c.kin.Velocity, t)
			c.jump.consume()
			c.changeMode(Airborne{})
		case c.wall.expired(t),
			!in.HoldsWallKeys(wr.Side),
			!contact.Valid || !c.probe.IsWall(contact.Hit.Normal):
			c.changeMode(Airborne{})
			soft = true
		}
	}

	if c.mode.Kind() == KindAirborne && !grounded {
		for _, side := range [...]Side{SideLeft, SideRight} {
			contact := c.ctx.Contacts.Wall(side)
			if !c.wall.canRun(side, in, contact, c.kin.Velocity, t) {
				continue
			}
			if c.wall.begin(side, contact.Hit, c.kin.Velocity) {
				c.changeMode(WallRunning{Side: side})
				break
			}
		}
	}

	if c.mode.Kind() == KindSliding {
		switch {
		case !c.standing(t.SlideMinNormalY):
			c.changeMode(Airborne{})
		case c.jump.buffered(), !in.Crouch, c.slide.Speed < t.SlideMinSpeed:
			c.changeMode(Grounded{})
		}
	}

	if c.mode.Kind() == KindGrounded && grounded && !c.jump.buffered() &&
		c.slide.canSlide(in, c.kin.Velocity, t) {
		c.changeMode(Sliding{})
	}

	switch c.mode.(type) {
	case Grounded, Airborne:
		if grounded {
			c.jump.coyote = t.CoyoteTime
			if c.mode.Kind() != KindGrounded {
				c.changeMode(Grounded{})
			}
		} else if c.mode.Kind() == KindGrounded {
			c.changeMode(Airborne{})
		}

		if c.jump.buffered() && (c.mode.Kind() == KindGrounded || c.jump.coyote > 0) {
			c.jump.consume()
			c.kin.Velocity[1] = jumpVelocity(t)
			c.changeMode(Airborne{})
			soft = false
		}
	}
	return soft && c.mode.Kind() == KindAirborne
}

func (c *Controller) changeMode(next Mode) {
	if next == c.mode {
		return
	}
	prev := c.mode
	stateFor(prev).Exit(&c.ctx)
	c.mode = next
	stateFor(next).Enter(&c.ctx)
	if c.onTransition != nil {
		c.onTransition(prev, next)
	}
}

// clampSpeed enforces the dynamic cap on total velocity.
func (c *Controller) clampSpeed() {
	c.kin.Velocity = common.ClampLen(c.kin.Velocity, c.tuning.SpeedCap(c.dash.Active()))
	if c.slide.Active {
		c.slide.Speed = math.Min(c.slide.Speed, common.HorizontalLen(c.kin.Velocity))
	}
}

// integrate moves the body by the frame's velocity with collision response:
// horizontal surface sliding, then a ceiling or floor check for the vertical part.
func (c *Controller) integrate(dt float64) {
	t := c.tuning
	pos, vel := c.probe.SlideMove(c.kin.Position, common.Horizontal(c.kin.Velocity).Mul(dt), c.kin.Velocity)

	dy := vel.Y() * dt
	switch {
	case dy > 0:
		if hit, ok := c.probe.Ceiling(pos, dy); ok {
			dy = math.Max(0, hit.Distance-t.CollisionBuffer)
			vel[1] = 0
		}
		pos[1] += dy
	case dy < 0:
		if hit, ok := c.probe.Floor(pos, -dy); ok {
			pos[1] = hit.Point.Y()
			if c.probe.IsGround(hit.Normal) {
				vel[1] = 0
			} else {
				vel = common.ProjectOnPlane(vel, hit.Normal)
			}
		} else {
			pos[1] += dy
		}
	}

	c.kin.Position = pos
	c.kin.Velocity = vel
	if c.slide.Active {
		c.slide.redirect(vel)
	}
}

// touchingWall reports a runnable wall on either side in this frame's contacts.
func (c *Controller) touchingWall() bool {
	for _, side := range [...]Side{SideLeft, SideRight} {
		if w := c.ctx.Contacts.Wall(side); w.Valid && c.probe.IsWall(w.Hit.Normal) {
			return true
		}
	}
	return false
}

func (c *Controller) publish(prev Mode) {
	kind := c.mode.Kind()
	c.kin.Grounded = kind == KindGrounded || kind == KindSliding
	if wr, ok := c.mode.(WallRunning); ok {
		c.kin.WallSide = wr.Side
	} else {
		c.kin.WallSide = SideNone
	}
	c.kin.WallContact = c.touchingWall()

	snap := Snapshot{
		Frame:             c.frame,
		Mode:              c.mode,
		Kinematics:        c.kin,
		CameraHeight:      c.camera.Height,
		CameraTilt:        c.camera.Tilt,
		DashActive:        c.dash.Active(),
		DashBoostFraction: c.dash.BoostFraction(c.tuning),
		DashCooldown:      c.dash.Cooldown,
		Transitioned:      prev != c.mode,
		PrevMode:          prev,
	}
	if c.slide.Active {
		snap.SlideSpeed = c.slide.Speed
	}
	if c.wall.Active {
		snap.WallRunElapsed = c.wall.Elapsed
	}
	c.snap = snap
}
