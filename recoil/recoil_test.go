package recoil

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/wallrun/movement"
)

type fakeSource struct {
	mode  movement.Mode
	speed float64
}

func (f fakeSource) Mode() movement.Mode { return f.mode }
func (f fakeSource) Kinematics() movement.Kinematics {
	return movement.Kinematics{Velocity: mgl64.Vec3{0, 0, f.speed}}
}

func TestShootMultiplierByMode(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		name string
		src  ModeSource
		want float64
	}{
		{"standing", fakeSource{mode: movement.Grounded{}}, cfg.Multipliers.Standing},
		{"moving", fakeSource{mode: movement.Grounded{}, speed: 5}, cfg.Multipliers.Moving},
		{"sliding", fakeSource{mode: movement.Sliding{}, speed: 30}, cfg.Multipliers.Sliding},
		{"wallrunning", fakeSource{mode: movement.WallRunning{Side: movement.SideLeft}, speed: 18}, cfg.Multipliers.WallRunning},
		{"airborne", fakeSource{mode: movement.Airborne{}}, cfg.Multipliers.Airborne},
		{"nil_source", nil, cfg.Multipliers.Standing},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			coupler := New(cfg, c.src)
			kick := coupler.Shoot()
			if want := cfg.Vertical * c.want; math.Abs(kick-want) > 1e-12 || math.Abs(coupler.Offset()-want) > 1e-12 {
				t.Fatalf("expected kick %v, got kick %v offset %v", want, kick, coupler.Offset())
			}
		})
	}
}

func TestGroundedAndWallRunKicksDiffer(t *testing.T) {
	cfg := DefaultConfig()
	grounded := New(cfg, fakeSource{mode: movement.Grounded{}})
	wall := New(cfg, fakeSource{mode: movement.WallRunning{Side: movement.SideRight}, speed: 18})
	grounded.Shoot()
	wall.Shoot()
	if grounded.Offset() == wall.Offset() {
		t.Fatalf("expected different offsets, both %v", grounded.Offset())
	}
	if ratio := wall.Offset() / grounded.Offset(); math.Abs(ratio-cfg.Multipliers.WallRunning/cfg.Multipliers.Standing) > 1e-12 {
		t.Fatalf("offset ratio %v does not follow the multiplier table", ratio)
	}
}

func TestRecovery(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg, nil)
	c.Shoot()
	start := c.Offset()

	c.Update(cfg.Hold / 2)
	if c.Offset() != start {
		t.Fatalf("offset should hold during the hold window, got %v", c.Offset())
	}

	c.Update(cfg.Hold / 2)
	step := 1.0 / 60
	before := c.Offset()
	c.Update(step)
	want := before * math.Exp(-cfg.RecoveryRate*step)
	if math.Abs(c.Offset()-want) > 1e-12 {
		t.Fatalf("expected %v after one recovery step, got %v", want, c.Offset())
	}

	for i := 0; i < 600; i++ {
		c.Update(step)
	}
	if c.Offset() != 0 {
		t.Fatalf("expected full recovery, got %v", c.Offset())
	}
}

func TestShotsStack(t *testing.T) {
	c := New(DefaultConfig(), nil)
	first := c.Shoot()
	c.Update(0.05)
	c.Shoot()
	if c.Offset() <= first {
		t.Fatalf("second shot should stack on the first, got %v", c.Offset())
	}
	if c.Shots() != 2 {
		t.Fatalf("expected 2 shots, got %d", c.Shots())
	}
}

func TestCouplerReadsController(t *testing.T) {
	ctrl := movement.New(movement.DefaultTuning(), nil, mgl64.Vec3{})
	c := New(DefaultConfig(), ctrl)
	if got := c.Multiplier(); got != DefaultConfig().Multipliers.Airborne {
		t.Fatalf("expected airborne multiplier, got %v", got)
	}
}
