package movement

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const dt = 1.0 / 60

// plane is an infinite one-sided surface: rays only hit its front face.
type plane struct {
	point  mgl64.Vec3
	normal mgl64.Vec3
}

type planeWorld []plane

func (w planeWorld) Raycast(origin, dir mgl64.Vec3, maxDist float64) (CollisionHit, bool) {
	var (
		best  CollisionHit
		found bool
	)
	for _, p := range w {
		n := p.normal.Normalize()
		denom := dir.Dot(n)
		if denom >= -1e-12 {
			continue
		}
		d := p.point.Sub(origin).Dot(n) / denom
		if d < 0 || d > maxDist {
			continue
		}
		if !found || d < best.Distance {
			best = CollisionHit{Point: origin.Add(dir.Mul(d)), Normal: n, Distance: d}
			found = true
		}
	}
	return best, found
}

func floor(y float64) plane {
	return plane{point: mgl64.Vec3{0, y, 0}, normal: mgl64.Vec3{0, 1, 0}}
}

// wallAt is a vertical wall at x facing back toward the origin side.
func wallAt(x float64) plane {
	n := mgl64.Vec3{-1, 0, 0}
	if x < 0 {
		n = mgl64.Vec3{1, 0, 0}
	}
	return plane{point: mgl64.Vec3{x, 0, 0}, normal: n}
}

func groundContact(y float64, normal mgl64.Vec3) Contact {
	return Contact{
		Hit:   CollisionHit{Point: mgl64.Vec3{0, y, 0}, Normal: normal, Distance: 0.5},
		Valid: true,
	}
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func assertVec(t *testing.T, name string, got, want mgl64.Vec3, tol float64) {
	t.Helper()
	if got.Sub(want).Len() > tol {
		t.Fatalf("%s: expected %v, got %v", name, want, got)
	}
}

// tickN advances c n frames with the same input and returns the last snapshot.
func tickN(c *Controller, n int, in Input) Snapshot {
	var snap Snapshot
	for i := 0; i < n; i++ {
		snap = c.Tick(dt, in)
	}
	return snap
}
