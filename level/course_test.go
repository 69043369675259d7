package level

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/wallrun/movement"
)

func testCourse(t *testing.T) *Course {
	t.Helper()
	floor, err := newBox("floor", mgl64.Vec3{-50, -1, -50}, mgl64.Vec3{50, 0, 50})
	if err != nil {
		t.Fatalf("floor: %v", err)
	}
	wall, err := newBox("wall", mgl64.Vec3{3, 0, 20}, mgl64.Vec3{4, 8, 40})
	if err != nil {
		t.Fatalf("wall: %v", err)
	}
	ramp, err := newRamp("ramp", mgl64.Vec3{-20, 0, -10}, mgl64.Vec3{-10, 2, 10}, "+x")
	if err != nil {
		t.Fatalf("ramp: %v", err)
	}
	pillar, err := newPrism("pillar", []mgl64.Vec2{{22, 30}, {24, 28}, {26, 28}, {28, 30}, {28, 32}, {26, 34}, {24, 34}, {22, 32}}, 0, 10)
	if err != nil {
		t.Fatalf("pillar: %v", err)
	}
	c, err := NewCourse("test", mgl64.Vec3{}, []*Solid{floor, wall, ramp, pillar})
	if err != nil {
		t.Fatalf("course: %v", err)
	}
	return c
}

func assertVec(t *testing.T, what string, got, want mgl64.Vec3) {
	t.Helper()
	if got.Sub(want).Len() > 1e-9 {
		t.Fatalf("%s: expected %v, got %v", what, want, got)
	}
}

func TestRaycast(t *testing.T) {
	c := testCourse(t)
	down := mgl64.Vec3{0, -1, 0}
	east := mgl64.Vec3{1, 0, 0}

	cases := []struct {
		name    string
		origin  mgl64.Vec3
		dir     mgl64.Vec3
		maxDist float64
		hit     bool
		point   mgl64.Vec3
		normal  mgl64.Vec3
	}{
		{"floor", mgl64.Vec3{0, 1, 0}, down, 2, true, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}},
		{"floor_out_of_reach", mgl64.Vec3{0, 3, 0}, down, 2, false, mgl64.Vec3{}, mgl64.Vec3{}},
		{"wall_side", mgl64.Vec3{0, 1, 30}, east, 5, true, mgl64.Vec3{3, 1, 30}, mgl64.Vec3{-1, 0, 0}},
		{"over_wall", mgl64.Vec3{0, 9, 30}, east, 5, false, mgl64.Vec3{}, mgl64.Vec3{}},
		{"wall_top", mgl64.Vec3{3.5, 9, 30}, down, 2, true, mgl64.Vec3{3.5, 8, 30}, mgl64.Vec3{0, 1, 0}},
		{"pillar_face", mgl64.Vec3{20, 5, 31}, east, 5, true, mgl64.Vec3{22, 5, 31}, mgl64.Vec3{-1, 0, 0}},
		{"pillar_diagonal_face", mgl64.Vec3{20, 5, 26}, mgl64.Vec3{1, 0, 1}.Normalize(), 10, true, mgl64.Vec3{23, 5, 29}, mgl64.Vec3{-1, 0, -1}.Normalize()},
		{"from_inside", mgl64.Vec3{3.5, 1, 30}, east, 5, false, mgl64.Vec3{}, mgl64.Vec3{}},
		{"ramp_top", mgl64.Vec3{-15, 3, 0}, down, 5, true, mgl64.Vec3{-15, 1, 0}, mgl64.Vec3{-0.2, 1, 0}.Normalize()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hit, ok := c.Raycast(tc.origin, tc.dir, tc.maxDist)
			if ok != tc.hit {
				t.Fatalf("expected hit=%v, got %v (%+v)", tc.hit, ok, hit)
			}
			if !ok {
				return
			}
			assertVec(t, "point", hit.Point, tc.point)
			assertVec(t, "normal", hit.Normal, tc.normal)
			if want := tc.point.Sub(tc.origin).Len(); math.Abs(hit.Distance-want) > 1e-9 {
				t.Fatalf("expected distance %v, got %v", want, hit.Distance)
			}
		})
	}
}

func TestRaycastReturnsNearest(t *testing.T) {
	c := testCourse(t)
	hit, ok := c.Raycast(mgl64.Vec3{3.5, 20, 30}, mgl64.Vec3{0, -1, 0}, 30)
	if !ok {
		t.Fatalf("expected a hit")
	}
	if hit.Point.Y() != 8 {
		t.Fatalf("expected the wall top before the floor, got %v", hit.Point)
	}
}

func TestSolidAt(t *testing.T) {
	c := testCourse(t)

	s, ok := c.SolidAt(mgl64.Vec3{3.5, 8.5, 30})
	if !ok || s.Name != "wall" {
		t.Fatalf("expected wall below the point, got %v", s)
	}
	s, ok = c.SolidAt(mgl64.Vec3{-12, 5, 0})
	if !ok || s.Name != "ramp" {
		t.Fatalf("expected ramp below the point, got %v", s)
	}
	if got := s.TopAt(-12, 0); math.Abs(got-1.6) > 1e-9 {
		t.Fatalf("expected ramp height 1.6, got %v", got)
	}
	if _, ok := c.SolidAt(mgl64.Vec3{0, -5, 0}); ok {
		t.Fatalf("nothing is below the floor")
	}
}

func TestInside(t *testing.T) {
	c := testCourse(t)
	if !c.Inside(mgl64.Vec3{25, 5, 31}) {
		t.Fatalf("expected point inside the pillar")
	}
	if c.Inside(mgl64.Vec3{25, 11, 31}) {
		t.Fatalf("point above the pillar is outside")
	}
	if c.Inside(mgl64.Vec3{22.1, 5, 28.1}) {
		t.Fatalf("point past the cut corner is outside")
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		is   error
	}{
		{"empty", "name: nothing\n", ErrEmptyLevel},
		{"unknown_field", "name: x\nblocks:\n  - min: [0, 0, 0]\n    max: [1, 1, 1]\n    colour: red\n", nil},
		{"inverted_box", "blocks:\n  - min: [0, 1, 0]\n    max: [1, 0, 1]\n", nil},
		{"concave", "blocks:\n  - footprint: [[0, 0], [4, 0], [1, 1], [0, 4]]\n    bottom: 0\n    top: 1\n", errNotConvex},
		{"bad_rise", "ramps:\n  - min: [0, 0, 0]\n    max: [1, 1, 1]\n    rise: up\n", nil},
		{"spawn_inside", "spawn: [0, 0.5, 0]\nblocks:\n  - min: [-1, 0, -1]\n    max: [1, 1, 1]\n", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
		})
	}
}

func TestLoadEmbeddedCourses(t *testing.T) {
	names := Courses()
	if len(names) == 0 {
		t.Fatalf("expected embedded courses")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			c, err := Load(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(c.Solids()) == 0 {
				t.Fatalf("course has no solids")
			}
			lo, hi := c.Bounds()
			if lo.X() >= hi.X() || lo.Y() >= hi.Y() {
				t.Fatalf("degenerate bounds %v %v", lo, hi)
			}
		})
	}
}

func TestControllerOnTrainingCourse(t *testing.T) {
	c, err := Load("training")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tuning := movement.DefaultTuning()
	const dt = 1.0 / 60

	t.Run("spawn_grounded", func(t *testing.T) {
		ctrl := movement.New(tuning, c, c.Spawn)
		if ctrl.Mode() != (movement.Grounded{}) {
			t.Fatalf("expected grounded spawn, got %v", ctrl.Mode())
		}
	})

	t.Run("stands_on_ramp", func(t *testing.T) {
		ctrl := movement.New(tuning, c, mgl64.Vec3{0, 1.2, 86})
		if ctrl.Mode() != (movement.Grounded{}) {
			t.Fatalf("expected grounded on the ramp, got %v", ctrl.Mode())
		}
		if y := ctrl.Kinematics().Position.Y(); math.Abs(y-1) > 1e-9 {
			t.Fatalf("expected to stand at ramp height 1, got %v", y)
		}
	})

	t.Run("wall_run_in_corridor", func(t *testing.T) {
		ctrl := movement.New(tuning, c, mgl64.Vec3{2.2, 3, 30})
		if ctrl.Mode() != (movement.Airborne{}) {
			t.Fatalf("expected airborne spawn, got %v", ctrl.Mode())
		}
		ctrl.TryDash(mgl64.Vec3{0, 0, 1})
		snap := ctrl.Tick(dt, movement.Input{MoveZ: 1, MoveX: 1})
		if snap.Mode != (movement.WallRunning{Side: movement.SideRight}) {
			t.Fatalf("expected right wall run, got %v", snap.Mode)
		}
		for i := 0; i < 60; i++ {
			snap = ctrl.Tick(dt, movement.Input{MoveZ: 1, MoveX: 1})
		}
		if snap.Mode != (movement.WallRunning{Side: movement.SideRight}) {
			t.Fatalf("wall run dropped inside the corridor: %v", snap.Mode)
		}
		if snap.Position.X() > 3-tuning.Radius {
			t.Fatalf("player passed into the wall: %v", snap.Position)
		}
	})
}
