package recoil

import (
	"math"

	"github.com/milk9111/wallrun/common"
	"github.com/milk9111/wallrun/movement"
)

// ModeSource is what the coupler reads from the movement side.
// *movement.Controller satisfies it.
type ModeSource interface {
	Mode() movement.Mode
	Kinematics() movement.Kinematics
}

// Multipliers scale the base kick per locomotion mode. Grounded splits into
// standing and moving by horizontal speed.
type Multipliers struct {
	Standing    float64
	Moving      float64
	Sliding     float64
	WallRunning float64
	Airborne    float64
}

type Config struct {
	// Vertical is the base upward kick per shot.
	Vertical float64
	// RecoveryRate is the exponential rate the offset returns to zero at.
	RecoveryRate float64
	// Hold is how long a fresh kick stays at full strength before recovering.
	Hold float64
	// MovingSpeed is the horizontal speed above which grounded shots use Moving.
	MovingSpeed float64
	Multipliers Multipliers
}

func DefaultConfig() Config {
	return Config{
		Vertical:     0.3,
		RecoveryRate: 8,
		Hold:         0.15,
		MovingSpeed:  1,
		Multipliers: Multipliers{
			Standing:    1.0,
			Moving:      1.3,
			Sliding:     0.7,
			WallRunning: 1.2,
			Airborne:    1.5,
		},
	}
}

// Coupler turns shot events into a vertical view offset whose strength depends
// on how the player is moving. It never writes to the movement side.
type Coupler struct {
	cfg    Config
	src    ModeSource
	offset float64
	hold   float64
	shots  int
}

type standingStill struct{}

func (standingStill) Mode() movement.Mode             { return movement.Grounded{} }
func (standingStill) Kinematics() movement.Kinematics { return movement.Kinematics{} }

// New binds the coupler to src. A nil src reads as a standing, grounded player.
func New(cfg Config, src ModeSource) *Coupler {
	if src == nil {
		src = standingStill{}
	}
	return &Coupler{cfg: cfg, src: src}
}

// Multiplier is the scale a shot fired now would get.
func (c *Coupler) Multiplier() float64 {
	m := c.cfg.Multipliers
	switch c.src.Mode().Kind() {
	case movement.KindSliding:
		return m.Sliding
	case movement.KindWallRunning:
		return m.WallRunning
	case movement.KindAirborne:
		return m.Airborne
	default:
		if c.src.Kinematics().HorizontalSpeed() > c.cfg.MovingSpeed {
			return m.Moving
		}
		return m.Standing
	}
}

// Shoot applies one kick and returns its size.
func (c *Coupler) Shoot() float64 {
	kick := c.cfg.Vertical * c.Multiplier()
	c.offset += kick
	c.hold = c.cfg.Hold
	c.shots++
	return kick
}

// Update recovers the offset toward zero once the hold window has passed.
func (c *Coupler) Update(dt float64) {
	if !(dt > 0) {
		return
	}
	if c.hold > 0 {
		if c.hold > dt {
			c.hold -= dt
			return
		}
		dt -= c.hold
		c.hold = 0
	}
	c.offset = common.Decay(c.offset, c.cfg.RecoveryRate, dt)
	if math.Abs(c.offset) < common.Epsilon {
		c.offset = 0
	}
}

// Offset is the current upward view offset.
func (c *Coupler) Offset() float64 { return c.offset }

func (c *Coupler) Shots() int { return c.shots }

func (c *Coupler) Reset() {
	c.offset = 0
	c.hold = 0
}
