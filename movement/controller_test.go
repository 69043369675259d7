package movement

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewSpawnMode(t *testing.T) {
	cases := []struct {
		name  string
		world Raycaster
		spawn mgl64.Vec3
		want  Mode
	}{
		{"on_floor", planeWorld{floor(0)}, mgl64.Vec3{0, 0.1, 0}, Grounded{}},
		{"above_floor", planeWorld{floor(0)}, mgl64.Vec3{0, 5, 0}, Airborne{}},
		{"no_world", nil, mgl64.Vec3{}, Airborne{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctrl := New(DefaultTuning(), c.world, c.spawn)
			if ctrl.Mode() != c.want {
				t.Fatalf("expected %v, got %v", c.want, ctrl.Mode())
			}
			if c.want == (Grounded{}) && ctrl.Kinematics().Position.Y() != 0 {
				t.Fatalf("expected spawn snapped to floor, got %v", ctrl.Kinematics().Position)
			}
		})
	}
}

func TestGroundedAcceleration(t *testing.T) {
	tuning := DefaultTuning()
	c := New(tuning, planeWorld{floor(0)}, mgl64.Vec3{})

	snap := c.Tick(dt, Input{MoveZ: 1})
	if want := tuning.Acceleration * dt; !approx(snap.HorizontalSpeed(), want, 1e-9) {
		t.Fatalf("expected %v after one frame, got %v", want, snap.HorizontalSpeed())
	}

	snap = tickN(c, 59, Input{MoveZ: 1})
	if snap.Mode != (Grounded{}) {
		t.Fatalf("expected grounded, got %v", snap.Mode)
	}
	if got := snap.HorizontalSpeed(); got > tuning.MaxSpeed+1e-9 || got < tuning.MaxSpeed-1e-9 {
		t.Fatalf("expected to settle at max speed %v, got %v", tuning.MaxSpeed, got)
	}

	snap = tickN(c, 60, Input{MoveZ: 1, Sprint: true})
	if want := tuning.MaxSpeed * tuning.SprintMultiplier; !approx(snap.HorizontalSpeed(), want, 1e-9) {
		t.Fatalf("expected sprint speed %v, got %v", want, snap.HorizontalSpeed())
	}
}

func TestGroundedFriction(t *testing.T) {
	tuning := DefaultTuning()
	c := New(tuning, planeWorld{floor(0)}, mgl64.Vec3{})
	tickN(c, 60, Input{MoveZ: 1})
	before := c.Kinematics().HorizontalSpeed()

	snap := c.Tick(dt, Input{})
	want := before * math.Exp(-tuning.Friction*dt)
	if !approx(snap.HorizontalSpeed(), want, 1e-9) {
		t.Fatalf("expected %v after one frame of friction, got %v", want, snap.HorizontalSpeed())
	}

	snap = tickN(c, 120, Input{})
	if snap.HorizontalSpeed() <= 0 {
		t.Fatalf("friction decay should approach zero without reaching it, got %v", snap.HorizontalSpeed())
	}
	if snap.HorizontalSpeed() > 1e-6 {
		t.Fatalf("expected near standstill, got %v", snap.HorizontalSpeed())
	}
}

func TestAirControlKeepsMomentum(t *testing.T) {
	c := New(DefaultTuning(), nil, mgl64.Vec3{0, 50, 0})
	c.kin.Velocity = mgl64.Vec3{0, 0, 20}

	snap := tickN(c, 30, Input{MoveZ: 1})
	if !approx(snap.HorizontalSpeed(), 20, 1e-9) {
		t.Fatalf("air control should neither add past nor drop existing speed, got %v", snap.HorizontalSpeed())
	}

	snap = tickN(c, 30, Input{MoveX: 1})
	if snap.Velocity.X() <= 0 {
		t.Fatalf("air control should steer toward input, got %v", snap.Velocity)
	}
	if snap.HorizontalSpeed() > 20+1e-9 {
		t.Fatalf("steering must not add speed, got %v", snap.HorizontalSpeed())
	}
}

func TestJump(t *testing.T) {
	tuning := DefaultTuning()

	t.Run("from_ground", func(t *testing.T) {
		c := New(tuning, planeWorld{floor(0)}, mgl64.Vec3{})
		snap := c.Tick(dt, Input{Jump: true})
		if snap.Mode != (Airborne{}) {
			t.Fatalf("expected airborne, got %v", snap.Mode)
		}
		if snap.Velocity.Y() < jumpVelocity(tuning)-tuning.Gravity*dt*2 {
			t.Fatalf("expected jump velocity near %v, got %v", jumpVelocity(tuning), snap.Velocity.Y())
		}

		// stays airborne until it lands, then settles
		landed := false
		for i := 0; i < 600; i++ {
			if c.Tick(dt, Input{}).Mode == (Grounded{}) {
				landed = true
				break
			}
		}
		if !landed {
			t.Fatalf("never landed after jumping")
		}
		if y := c.Kinematics().Position.Y(); y != 0 {
			t.Fatalf("expected to land on the floor, got y=%v", y)
		}
	})

	t.Run("holding_jump_does_not_repeat", func(t *testing.T) {
		c := New(tuning, planeWorld{floor(0)}, mgl64.Vec3{})
		c.Tick(dt, Input{Jump: true})
		for i := 0; i < 600; i++ {
			c.Tick(dt, Input{Jump: true})
		}
		if c.Mode() != (Grounded{}) {
			t.Fatalf("held jump should not bounce, got %v", c.Mode())
		}
	})

	t.Run("coyote_time", func(t *testing.T) {
		c := New(tuning, planeWorld{floor(0)}, mgl64.Vec3{})
		c.Tick(dt, Input{})
		snap := c.TickWithContacts(dt, Input{}, Contacts{})
		if snap.Mode != (Airborne{}) {
			t.Fatalf("expected airborne after losing ground, got %v", snap.Mode)
		}
		snap = c.TickWithContacts(dt, Input{Jump: true}, Contacts{})
		if snap.Velocity.Y() <= 0 {
			t.Fatalf("jump inside coyote time should fire, got vy=%v", snap.Velocity.Y())
		}
	})

	t.Run("jump_cut", func(t *testing.T) {
		held := New(tuning, planeWorld{floor(0)}, mgl64.Vec3{})
		released := New(tuning, planeWorld{floor(0)}, mgl64.Vec3{})
		held.Tick(dt, Input{Jump: true})
		released.Tick(dt, Input{Jump: true})

		a := held.Tick(dt, Input{Jump: true})
		b := released.Tick(dt, Input{})
		if b.Velocity.Y() >= a.Velocity.Y() {
			t.Fatalf("releasing jump early should cut the rise: held=%v released=%v", a.Velocity.Y(), b.Velocity.Y())
		}
	})
}

func TestMalformedContactsReadAsNone(t *testing.T) {
	c := New(DefaultTuning(), planeWorld{floor(0)}, mgl64.Vec3{})
	bad := Contacts{Ground: Contact{
		Hit:   CollisionHit{Normal: mgl64.Vec3{math.NaN(), 1, 0}, Distance: 0.5},
		Valid: true,
	}}
	snap := c.TickWithContacts(dt, Input{}, bad)
	if snap.Mode != (Airborne{}) {
		t.Fatalf("malformed ground should read as no ground, got %v", snap.Mode)
	}
}

func TestTickIgnoresBadTimestep(t *testing.T) {
	c := New(DefaultTuning(), planeWorld{floor(0)}, mgl64.Vec3{})
	for _, step := range []float64{0, -dt, math.NaN(), math.Inf(1)} {
		snap := c.Tick(step, Input{MoveZ: 1})
		if snap.Frame != 0 || snap.HorizontalSpeed() != 0 {
			t.Fatalf("dt=%v should be ignored, got frame %d", step, snap.Frame)
		}
	}
}

func TestTransitionHook(t *testing.T) {
	c := New(DefaultTuning(), planeWorld{floor(0)}, mgl64.Vec3{})
	var got []string
	c.OnTransition(func(from, to Mode) {
		got = append(got, from.String()+">"+to.String())
	})

	tickN(c, 60, Input{MoveZ: 1, Sprint: true})
	c.Tick(dt, Input{Sprint: true, Crouch: true})
	c.Tick(dt, Input{Sprint: true, Crouch: true, Jump: true})

	want := []string{"grounded>sliding", "sliding>grounded", "grounded>airborne"}
	if len(got) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected transitions %v, got %v", want, got)
		}
	}
	if snap := c.Snapshot(); !snap.Transitioned || snap.PrevMode != (Sliding{}) {
		t.Fatalf("snapshot should record the frame's transition, got %v from %v", snap.Mode, snap.PrevMode)
	}
}

// End to end: run, slide, release crouch.
func TestRunSlideRelease(t *testing.T) {
	tuning := DefaultTuning()
	c := New(tuning, planeWorld{floor(0)}, mgl64.Vec3{})

	snap := tickN(c, 60, Input{MoveZ: 1})
	if snap.HorizontalSpeed() > tuning.MaxSpeed+1e-9 {
		t.Fatalf("grounded speed %v exceeds max %v", snap.HorizontalSpeed(), tuning.MaxSpeed)
	}

	snap = c.Tick(dt, Input{MoveZ: 1, Sprint: true, Crouch: true})
	if snap.Mode != (Sliding{}) {
		t.Fatalf("expected sliding, got %v", snap.Mode)
	}
	if snap.HorizontalSpeed() < tuning.SlideStartSpeed-tuning.SlideFriction*dt-1e-9 {
		t.Fatalf("slide started too slow: %v", snap.HorizontalSpeed())
	}

	snap = tickN(c, 30, Input{MoveZ: 1, Sprint: true, Crouch: true})
	if snap.Mode != (Sliding{}) {
		t.Fatalf("expected to keep sliding, got %v", snap.Mode)
	}

	snap = c.Tick(dt, Input{MoveZ: 1, Sprint: true})
	if snap.Mode != (Grounded{}) {
		t.Fatalf("expected grounded after releasing crouch, got %v", snap.Mode)
	}

	// same release with the floor gone falls through to airborne
	c = New(tuning, planeWorld{floor(0)}, mgl64.Vec3{})
	tickN(c, 60, Input{MoveZ: 1})
	c.Tick(dt, Input{MoveZ: 1, Sprint: true, Crouch: true})
	snap = c.TickWithContacts(dt, Input{MoveZ: 1, Sprint: true}, Contacts{})
	if snap.Mode != (Airborne{}) {
		t.Fatalf("expected airborne without ground, got %v", snap.Mode)
	}
}

// speedCourse has a floor, two parallel walls and a ceiling.
func speedCourse() planeWorld {
	return planeWorld{
		floor(0),
		wallAt(3),
		wallAt(-3),
		{point: mgl64.Vec3{0, 12, 0}, normal: mgl64.Vec3{0, -1, 0}},
		{point: mgl64.Vec3{0, 0, 40}, normal: mgl64.Vec3{0, 0.2, -1}},
	}
}

func TestSpeedNeverExceedsCap(t *testing.T) {
	tuning := DefaultTuning()
	rng := rand.New(rand.NewSource(7))
	c := New(tuning, speedCourse(), mgl64.Vec3{})

	axis := []float64{-1, 0, 1}
	in := Input{}
	for frame := 0; frame < 6000; frame++ {
		if frame%15 == 0 {
			in = Input{
				MoveX:  axis[rng.Intn(3)],
				MoveZ:  axis[rng.Intn(3)],
				Yaw:    rng.Float64() * 2 * math.Pi,
				Pitch:  (rng.Float64() - 0.5) * math.Pi,
				Sprint: rng.Intn(2) == 0,
				Crouch: rng.Intn(3) == 0,
				Jump:   rng.Intn(4) == 0,
				Dash:   rng.Intn(5) == 0,
			}
		}
		if rng.Intn(90) == 0 {
			c.TryDash(in.Look())
		}

		snap := c.Tick(dt, in)
		limit := tuning.SpeedCap(snap.DashActive)
		if got := snap.Velocity.Len(); got > limit+1e-9 {
			t.Fatalf("frame %d (%v): |v|=%v exceeds cap %v", frame, snap.Mode, got, limit)
		}
		if !snap.DashActive && snap.Velocity.Len() > tuning.BaseSpeedCap+1e-9 {
			t.Fatalf("frame %d: base cap violated outside a boost", frame)
		}
		if math.IsNaN(snap.Position.X()) || math.IsNaN(snap.Position.Y()) || math.IsNaN(snap.Position.Z()) {
			t.Fatalf("frame %d: position went NaN", frame)
		}
	}
}
