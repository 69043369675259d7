package movement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDashVelocity(t *testing.T) {
	tuning := DefaultTuning()

	cases := []struct {
		name     string
		vel      mgl64.Vec3
		look     mgl64.Vec3
		grounded bool
		want     mgl64.Vec3
	}{
		{"ground_level", mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, true, mgl64.Vec3{0, 0, 75}},
		{"ground_looking_down_no_vertical", mgl64.Vec3{}, mgl64.Vec3{0, -0.6, 0.8}, true, mgl64.Vec3{0, 0, 75}},
		{"ground_looking_up", mgl64.Vec3{}, mgl64.Vec3{0, 0.6, 0.8}, true, mgl64.Vec3{0, 9, 75}},
		{"air_looking_up", mgl64.Vec3{}, mgl64.Vec3{0, 0.6, 0.8}, false, mgl64.Vec3{0, 12.6, 75}},
		{"air_looking_down", mgl64.Vec3{}, mgl64.Vec3{0, -0.6, 0.8}, false, mgl64.Vec3{0, -12.6, 75}},
		{"air_vertical_clamped", mgl64.Vec3{0, 25, 0}, mgl64.Vec3{0, 1, 0}, false, mgl64.Vec3{0, 30, 0}},
		{"chains_with_momentum", mgl64.Vec3{5, 0, 10}, mgl64.Vec3{1, 0, 0}, true, mgl64.Vec3{80, 0, 10}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := dashVelocity(c.vel, c.look, c.grounded, tuning)
			assertVec(t, "velocity", got, c.want, 1e-9)
		})
	}
}

func TestTryDashCooldown(t *testing.T) {
	c := New(DefaultTuning(), nil, mgl64.Vec3{})
	look := mgl64.Vec3{0, 0, 1}

	if !c.TryDash(look) {
		t.Fatalf("first dash should trigger")
	}
	tickN(c, 30, Input{})

	before := c.Snapshot().DashCooldown
	if !approx(before, 0.5, 1e-9) {
		t.Fatalf("expected 0.5s cooldown left, got %v", before)
	}
	if c.TryDash(look) {
		t.Fatalf("dash inside the cooldown window should be a no-op")
	}
	if got := c.Snapshot().DashCooldown; got != before {
		t.Fatalf("rejected dash must not reset cooldown: %v -> %v", before, got)
	}

	tickN(c, 30, Input{})
	if !c.TryDash(look) {
		t.Fatalf("dash should be ready once the cooldown elapsed")
	}
}

func TestDashBoostWindow(t *testing.T) {
	tuning := DefaultTuning()
	c := New(tuning, nil, mgl64.Vec3{})
	if !c.TryDash(mgl64.Vec3{0, 0, 1}) {
		t.Fatalf("dash should trigger")
	}
	if !c.Snapshot().DashActive {
		t.Fatalf("boost should be active right after a dash")
	}

	snap := tickN(c, 29, Input{})
	if !snap.DashActive {
		t.Fatalf("boost ended early at %v remaining", c.dash.Boost)
	}
	if got := snap.HorizontalSpeed(); got <= tuning.BaseSpeedCap {
		t.Fatalf("boosted speed should exceed the base cap, got %v", got)
	}

	snap = c.Tick(dt, Input{})
	if snap.DashActive {
		t.Fatalf("boost should end after exactly %vs", tuning.DashBoostDuration)
	}
	if got := snap.Velocity.Len(); got > tuning.BaseSpeedCap+1e-9 {
		t.Fatalf("speed %v exceeds base cap once the boost ended", got)
	}
}

func TestDashInputEdge(t *testing.T) {
	tuning := DefaultTuning()
	tuning.DashCooldown = 0.05
	c := New(tuning, nil, mgl64.Vec3{})

	dashes := 0
	for i := 0; i < 20; i++ {
		before := c.dash.Cooldown
		c.Tick(dt, Input{Dash: true})
		if c.dash.Cooldown > before {
			dashes++
		}
	}
	if dashes != 1 {
		t.Fatalf("holding dash should fire once, fired %d times", dashes)
	}
}

func TestTryDashRejectsDegenerateLook(t *testing.T) {
	c := New(DefaultTuning(), nil, mgl64.Vec3{})
	if c.TryDash(mgl64.Vec3{}) {
		t.Fatalf("zero look should not dash")
	}
	if !c.dash.Ready() {
		t.Fatalf("rejected dash must not start the cooldown")
	}
}

func TestDashWhileSlidingRedirectsSlide(t *testing.T) {
	c := New(DefaultTuning(), planeWorld{floor(0)}, mgl64.Vec3{})
	tickN(c, 60, Input{MoveZ: 1, Sprint: true})
	c.Tick(dt, Input{Sprint: true, Crouch: true})
	if c.Mode() != (Sliding{}) {
		t.Fatalf("expected sliding, got %v", c.Mode())
	}

	if !c.TryDash(mgl64.Vec3{1, 0, 0}) {
		t.Fatalf("dash should fire while sliding")
	}
	if c.slide.Dir.X() <= 0 {
		t.Fatalf("slide direction should turn toward the dash, got %v", c.slide.Dir)
	}
	if !approx(c.slide.Speed, c.kin.HorizontalSpeed(), 1e-9) {
		t.Fatalf("slide speed %v out of sync with velocity %v", c.slide.Speed, c.kin.HorizontalSpeed())
	}
}
