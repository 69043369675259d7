package level

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/wallrun/movement"
)

var ErrEmptyLevel = errors.New("level: course has no solids")

// Course is static traversal geometry. Footprints are indexed in a chipmunk
// space (x, z mapped to the space's x, y) and candidate solids are clipped
// exactly in 3D. A Course is not safe for concurrent queries.
type Course struct {
	Name  string
	Spawn mgl64.Vec3

	solids []*Solid
	space  *cp.Space
}

var _ movement.Raycaster = (*Course)(nil)

func NewCourse(name string, spawn mgl64.Vec3, solids []*Solid) (*Course, error) {
	if len(solids) == 0 {
		return nil, ErrEmptyLevel
	}

	c := &Course{Name: name, Spawn: spawn, solids: solids, space: cp.NewSpace()}
	for _, s := range solids {
		verts := make([]cp.Vector, len(s.Footprint))
		for i, p := range s.Footprint {
			verts[i] = cp.Vector{X: p.X(), Y: p.Y()}
		}
		shape := cp.NewPolyShape(c.space.StaticBody, len(verts), verts, cp.NewTransformIdentity(), 0)
		shape.UserData = s
		s.shape = c.space.AddShape(shape)
	}

	if c.Inside(spawn.Add(mgl64.Vec3{0, 0.05, 0})) {
		return nil, fmt.Errorf("level: %s: spawn %v is inside a solid", name, spawn)
	}
	return c, nil
}

func (c *Course) Solids() []*Solid {
	return append([]*Solid(nil), c.solids...)
}

// Bounds returns the min and max (x, z) corners covering every footprint.
func (c *Course) Bounds() (mgl64.Vec2, mgl64.Vec2) {
	var bb cp.BB
	for i, s := range c.solids {
		for j, p := range s.Footprint {
			if i == 0 && j == 0 {
				bb = cp.BB{L: p.X(), B: p.Y(), R: p.X(), T: p.Y()}
				continue
			}
			bb = bb.Expand(cp.Vector{X: p.X(), Y: p.Y()})
		}
	}
	return mgl64.Vec2{bb.L, bb.B}, mgl64.Vec2{bb.R, bb.T}
}

// Raycast returns the nearest surface hit along dir within maxDist.
func (c *Course) Raycast(origin, dir mgl64.Vec3, maxDist float64) (movement.CollisionHit, bool) {
	var (
		best  movement.CollisionHit
		found bool
	)
	if !(maxDist >= 0) {
		return best, false
	}

	end := origin.Add(dir.Mul(maxDist))
	c.query(origin, end, func(s *Solid) {
		t, n, ok := s.intersect(origin, dir)
		if !ok || t > maxDist || (found && t >= best.Distance) {
			return
		}
		best = movement.CollisionHit{Point: origin.Add(dir.Mul(t)), Normal: n, Distance: t}
		found = true
	})
	return best, found
}

// Inside reports whether p is within any solid.
func (c *Course) Inside(p mgl64.Vec3) bool {
	inside := false
	c.query(p, p, func(s *Solid) {
		if inside {
			return
		}
		if s.Contains(p) {
			inside = true
		}
	})
	return inside
}

// SolidAt returns the solid whose top is highest at or below p, if any.
func (c *Course) SolidAt(p mgl64.Vec3) (*Solid, bool) {
	var best *Solid
	bestTop := 0.0
	c.query(p, p, func(s *Solid) {
		if !s.footprintContains(p.X(), p.Z()) {
			return
		}
		top := s.TopAt(p.X(), p.Z())
		if top > p.Y()+1e-9 {
			return
		}
		if best == nil || top > bestTop {
			best, bestTop = s, top
		}
	})
	return best, best != nil
}

// query visits every solid whose footprint bounds overlap the XZ projection
// of the segment from a to b.
func (c *Course) query(a, b mgl64.Vec3, visit func(*Solid)) {
	const pad = 1e-6
	bb := cp.BB{
		L: min(a.X(), b.X()) - pad,
		B: min(a.Z(), b.Z()) - pad,
		R: max(a.X(), b.X()) + pad,
		T: max(a.Z(), b.Z()) + pad,
	}
	c.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		if s, ok := shape.UserData.(*Solid); ok {
			visit(s)
		}
	}, nil)
}
