package level

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Solid is a convex prism: a footprint in the XZ plane extruded between a flat
// bottom and a top face that may be tilted.
type Solid struct {
	Name string
	// Footprint corners as (x, z), in order around the edge.
	Footprint []mgl64.Vec2
	Bottom    float64
	Top       float64
	// Ramp is true when the top face is tilted.
	Ramp bool

	planes []plane
	shape  *cp.Shape
}

// plane keeps points with n·p <= d. n is the outward unit normal.
type plane struct {
	n mgl64.Vec3
	d float64
}

func newPlane(n, point mgl64.Vec3) plane {
	n = n.Normalize()
	return plane{n: n, d: n.Dot(point)}
}

func newBox(name string, min, max mgl64.Vec3) (*Solid, error) {
	footprint := []mgl64.Vec2{
		{min.X(), min.Z()},
		{max.X(), min.Z()},
		{max.X(), max.Z()},
		{min.X(), max.Z()},
	}
	return newPrism(name, footprint, min.Y(), max.Y())
}

func newPrism(name string, footprint []mgl64.Vec2, bottom, top float64) (*Solid, error) {
	s := &Solid{Name: name, Footprint: footprint, Bottom: bottom, Top: top}
	if err := s.buildSides(); err != nil {
		return nil, err
	}
	s.planes = append(s.planes,
		plane{n: mgl64.Vec3{0, -1, 0}, d: -bottom},
		plane{n: mgl64.Vec3{0, 1, 0}, d: top},
	)
	return s, nil
}

// newRamp builds a wedge over the box footprint whose top climbs from the box
// bottom at one edge to the box top at the edge rise points to.
func newRamp(name string, min, max mgl64.Vec3, rise string) (*Solid, error) {
	s, err := newBox(name, min, max)
	if err != nil {
		return nil, err
	}

	var axis mgl64.Vec3
	switch rise {
	case "+x", "x":
		axis = mgl64.Vec3{1, 0, 0}
	case "-x":
		axis = mgl64.Vec3{-1, 0, 0}
	case "+z", "z":
		axis = mgl64.Vec3{0, 0, 1}
	case "-z":
		axis = mgl64.Vec3{0, 0, -1}
	default:
		return nil, fmt.Errorf("level: ramp %q: unknown rise direction %q", name, rise)
	}

	// extent of the footprint along the axis
	lowEdge, highEdge := math.Inf(1), math.Inf(-1)
	for _, p := range s.Footprint {
		along := p.X()*axis.X() + p.Y()*axis.Z()
		lowEdge = math.Min(lowEdge, along)
		highEdge = math.Max(highEdge, along)
	}
	run := highEdge - lowEdge
	slope := (max.Y() - min.Y()) / run

	normal := mgl64.Vec3{-slope * axis.X(), 1, -slope * axis.Z()}
	anchor := axis.Mul(lowEdge).Add(mgl64.Vec3{0, min.Y(), 0})

	s.planes[len(s.planes)-1] = newPlane(normal, anchor)
	s.Ramp = true
	return s, nil
}

func (s *Solid) buildSides() error {
	n := len(s.Footprint)
	if n < 3 {
		return fmt.Errorf("level: solid %q: footprint needs at least 3 points, got %d", s.Name, n)
	}
	if !(s.Top > s.Bottom) {
		return fmt.Errorf("level: solid %q: top %v must be above bottom %v", s.Name, s.Top, s.Bottom)
	}

	var centroid mgl64.Vec2
	for _, p := range s.Footprint {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Mul(1 / float64(n))

	var turn float64
	for i := range s.Footprint {
		a, b, c := s.Footprint[i], s.Footprint[(i+1)%n], s.Footprint[(i+2)%n]
		cross := cross2(b.Sub(a), c.Sub(b))
		switch {
		case math.Abs(cross) < 1e-12:
			continue
		case turn == 0:
			turn = math.Copysign(1, cross)
		case math.Copysign(1, cross) != turn:
			return fmt.Errorf("level: solid %q: %w", s.Name, errNotConvex)
		}
	}
	if turn == 0 {
		return fmt.Errorf("level: solid %q: footprint has no area", s.Name)
	}

	for i := range s.Footprint {
		a, b := s.Footprint[i], s.Footprint[(i+1)%n]
		edge := b.Sub(a)
		if edge.Len() < 1e-9 {
			return fmt.Errorf("level: solid %q: repeated footprint point %v", s.Name, a)
		}
		out := mgl64.Vec3{edge.Y(), 0, -edge.X()}
		if out.Dot(mgl64.Vec3{centroid.X() - a.X(), 0, centroid.Y() - a.Y()}) > 0 {
			out = out.Mul(-1)
		}
		s.planes = append(s.planes, newPlane(out, mgl64.Vec3{a.X(), 0, a.Y()}))
	}
	return nil
}

var errNotConvex = errors.New("footprint is not convex")

func cross2(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// intersect clips the ray against every face and returns the entry distance
// and the face it entered through. Rays starting inside the solid miss.
func (s *Solid) intersect(origin, dir mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	enter, exit := math.Inf(-1), math.Inf(1)
	var normal mgl64.Vec3
	for _, p := range s.planes {
		dist := p.d - p.n.Dot(origin)
		den := p.n.Dot(dir)
		if math.Abs(den) < 1e-12 {
			if dist < 0 {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		t := dist / den
		if den < 0 {
			if t > enter {
				enter = t
				normal = p.n
			}
		} else if t < exit {
			exit = t
		}
	}
	if enter > exit || enter < 0 {
		return 0, mgl64.Vec3{}, false
	}
	return enter, normal, true
}

// Contains reports whether p is inside or on the surface of the solid.
func (s *Solid) Contains(p mgl64.Vec3) bool {
	for _, pl := range s.planes {
		if pl.n.Dot(p) > pl.d+1e-9 {
			return false
		}
	}
	return true
}

// TopAt is the height of the top face above (x, z).
func (s *Solid) TopAt(x, z float64) float64 {
	top := s.planes[len(s.planes)-1]
	if math.Abs(top.n.Y()) < 1e-12 {
		return s.Top
	}
	return (top.d - top.n.X()*x - top.n.Z()*z) / top.n.Y()
}

// footprintContains asks the indexed shape; solids not yet in a course fall
// back to the side planes.
func (s *Solid) footprintContains(x, z float64) bool {
	if s.shape != nil {
		return s.shape.PointQuery(cp.Vector{X: x, Y: z}).Distance <= 1e-9
	}
	p := mgl64.Vec3{x, 0, z}
	for _, pl := range s.planes {
		if pl.n.Y() == 0 && pl.n.Dot(p) > pl.d+1e-9 {
			return false
		}
	}
	return true
}
