package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/wallrun/common"
)

// CollisionHit is a single ray contact. Distance is measured from the ray origin.
type CollisionHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// Raycaster is the world query the movement core runs against.
// dir is a unit vector; a miss returns false.
type Raycaster interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64) (CollisionHit, bool)
}

// RaycasterFunc adapts a plain function to Raycaster.
type RaycasterFunc func(origin, dir mgl64.Vec3, maxDist float64) (CollisionHit, bool)

func (f RaycasterFunc) Raycast(origin, dir mgl64.Vec3, maxDist float64) (CollisionHit, bool) {
	return f(origin, dir, maxDist)
}

type noContact struct{}

func (noContact) Raycast(mgl64.Vec3, mgl64.Vec3, float64) (CollisionHit, bool) {
	return CollisionHit{}, false
}

// Contact is a probed hit, or Valid=false when nothing usable was found.
type Contact struct {
	Hit   CollisionHit
	Valid bool
}

// Contacts are the per-frame probe results the state machine runs on.
type Contacts struct {
	Ground Contact
	Left   Contact
	Right  Contact
}

func (c Contacts) Wall(side Side) Contact {
	switch side {
	case SideLeft:
		return c.Left
	case SideRight:
		return c.Right
	default:
		return Contact{}
	}
}

func (c *Contacts) setWall(side Side, contact Contact) {
	switch side {
	case SideLeft:
		c.Left = contact
	case SideRight:
		c.Right = contact
	}
}

// Sanitized drops malformed hits so they read as no contact.
func (c Contacts) Sanitized() Contacts {
	return Contacts{
		Ground: sanitizeContact(c.Ground),
		Left:   sanitizeContact(c.Left),
		Right:  sanitizeContact(c.Right),
	}
}

func sanitizeContact(c Contact) Contact {
	if !c.Valid {
		return Contact{}
	}
	hit, ok := sanitizeHit(c.Hit)
	if !ok {
		return Contact{}
	}
	return Contact{Hit: hit, Valid: true}
}

func sanitizeHit(hit CollisionHit) (CollisionHit, bool) {
	if !common.Finite(hit.Point) || !common.FiniteScalar(hit.Distance) || hit.Distance < 0 {
		return CollisionHit{}, false
	}
	n, ok := common.Normalize(hit.Normal)
	if !ok {
		return CollisionHit{}, false
	}
	hit.Normal = n
	return hit, true
}

// Probe casts the short rays the controller needs. It holds no per-frame state.
type Probe struct {
	rc     Raycaster
	tuning Tuning
}

// NewProbe binds a raycaster. A nil raycaster never reports contact.
func NewProbe(rc Raycaster, tuning Tuning) *Probe {
	if rc == nil {
		rc = noContact{}
	}
	return &Probe{rc: rc, tuning: tuning}
}

// Cast is a sanitized raycast.
func (p *Probe) Cast(origin, dir mgl64.Vec3, maxDist float64) (CollisionHit, bool) {
	if maxDist <= 0 {
		return CollisionHit{}, false
	}
	dir, ok := common.Normalize(dir)
	if !ok {
		return CollisionHit{}, false
	}
	hit, ok := p.rc.Raycast(origin, dir, maxDist)
	if !ok {
		return CollisionHit{}, false
	}
	hit, ok = sanitizeHit(hit)
	if !ok || hit.Distance > maxDist+common.Epsilon {
		return CollisionHit{}, false
	}
	return hit, true
}

// Ground casts down from step height. Any upward-facing hit within snap range
// is reported; callers decide whether it is walkable.
func (p *Probe) Ground(pos mgl64.Vec3) Contact {
	origin := pos.Add(common.Up.Mul(p.tuning.StepOffset))
	hit, ok := p.Cast(origin, common.Up.Mul(-1), p.tuning.StepOffset+p.tuning.GroundSnapDistance)
	if !ok || hit.Normal.Y() <= 0 {
		return Contact{}
	}
	return Contact{Hit: hit, Valid: true}
}

// Wall casts along dir at each body probe height and returns the nearest
// wall-like surface facing the player.
func (p *Probe) Wall(pos, dir mgl64.Vec3) Contact {
	var best Contact
	for _, h := range p.tuning.WallProbeHeights {
		origin := pos.Add(common.Up.Mul(h))
		hit, ok := p.Cast(origin, dir, p.tuning.WallProbeDistance)
		if !ok || !p.IsWall(hit.Normal) || hit.Normal.Dot(dir) >= 0 {
			continue
		}
		if !best.Valid || hit.Distance < best.Hit.Distance {
			best = Contact{Hit: hit, Valid: true}
		}
	}
	return best
}

// Walls probes at -90 and +90 degrees from the camera forward.
func (p *Probe) Walls(pos mgl64.Vec3, yaw float64) (left, right Contact) {
	r := common.Right(yaw)
	return p.Wall(pos, r.Mul(-1)), p.Wall(pos, r)
}

func (p *Probe) Contacts(pos mgl64.Vec3, yaw float64) Contacts {
	left, right := p.Walls(pos, yaw)
	return Contacts{Ground: p.Ground(pos), Left: left, Right: right}
}

// IsGround reports whether a normal is flat enough to stand on.
func (p *Probe) IsGround(n mgl64.Vec3) bool {
	return n.Y() >= p.tuning.GroundMinNormalY
}

// IsWall reports whether a normal is steep enough to run along.
func (p *Probe) IsWall(n mgl64.Vec3) bool {
	return math.Abs(n.Y()) < p.tuning.WallMaxNormalY
}

// SlideMove moves pos horizontally by disp. Blocking surfaces redirect the
// remaining displacement and the velocity onto their tangent plane. Walkable
// surfaces do not block; ground snapping handles them.
func (p *Probe) SlideMove(pos, disp, vel mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	disp = common.Horizontal(disp)
	for i := 0; i < p.tuning.MaxSlideIterations; i++ {
		dist := disp.Len()
		if dist < common.Epsilon {
			return pos, vel
		}
		dir := disp.Mul(1 / dist)

		hit, normal, blocked := p.blocking(pos, dir, dist)
		if !blocked {
			return pos.Add(disp), vel
		}

		// distance we can travel before the body radius touches the plane
		facing := -dir.Dot(normal)
		allowed := hit.Distance - p.tuning.Radius/facing
		if allowed >= dist {
			return pos.Add(disp), vel
		}
		allowed = math.Max(0, allowed)
		pos = pos.Add(dir.Mul(allowed))

		remaining := dir.Mul(dist - allowed)
		disp = common.ProjectOnPlane(remaining, normal)
		if common.Horizontal(vel).Dot(normal) < 0 {
			vel = common.WithHorizontal(vel, common.ProjectOnPlane(common.Horizontal(vel), normal))
		}
	}
	// still blocked after the last redirect; drop what is left
	return pos, vel
}

// blocking returns the nearest non-walkable hit along dir across body heights,
// with its normal flattened to the horizontal plane.
func (p *Probe) blocking(pos, dir mgl64.Vec3, dist float64) (CollisionHit, mgl64.Vec3, bool) {
	var (
		best   CollisionHit
		normal mgl64.Vec3
		found  bool
	)
	reach := dist + p.tuning.Radius*3
	for _, h := range p.bodyHeights() {
		hit, ok := p.Cast(pos.Add(common.Up.Mul(h)), dir, reach)
		if !ok || p.IsGround(hit.Normal) {
			continue
		}
		n, ok := common.Normalize(common.Horizontal(hit.Normal))
		if !ok || n.Dot(dir) >= 0 {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best, normal, found = hit, n, true
		}
	}
	return best, normal, found
}

func (p *Probe) bodyHeights() [3]float64 {
	t := p.tuning
	return [3]float64{t.StepOffset, t.Height * 0.5, t.Height - t.CollisionBuffer}
}

// Ceiling checks for a surface above the head within rise.
func (p *Probe) Ceiling(pos mgl64.Vec3, rise float64) (CollisionHit, bool) {
	origin := pos.Add(common.Up.Mul(p.tuning.Height))
	return p.Cast(origin, common.Up, rise+p.tuning.CollisionBuffer)
}

// Floor checks for a surface below the feet within drop.
func (p *Probe) Floor(pos mgl64.Vec3, drop float64) (CollisionHit, bool) {
	origin := pos.Add(common.Up.Mul(p.tuning.StepOffset))
	hit, ok := p.Cast(origin, common.Up.Mul(-1), p.tuning.StepOffset+drop)
	if !ok || hit.Normal.Y() <= 0 {
		return CollisionHit{}, false
	}
	return hit, true
}
