package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/wallrun/common"
)

// SlideState is the slide subsystem's data. Dir is a horizontal unit vector.
type SlideState struct {
	Active   bool
	Speed    float64
	Dir      mgl64.Vec3
	Elapsed  float64
	Cooldown float64
}

func (s *SlideState) advance(dt float64) {
	s.Cooldown = common.Countdown(s.Cooldown, dt)
}

// canSlide checks the input and speed requirements for starting a slide.
// The caller is responsible for the grounded requirement.
func (s *SlideState) canSlide(in Input, vel mgl64.Vec3, t Tuning) bool {
	if !in.Sprint || !in.Crouch || s.Active || s.Cooldown > 0 {
		return false
	}
	forwardSpeed := common.Horizontal(vel).Dot(in.Forward())
	return forwardSpeed >= t.SlideMinEntrySpeed
}

func (s *SlideState) begin(forward mgl64.Vec3, t Tuning) {
	dir, ok := common.Normalize(common.Horizontal(forward))
	if !ok {
		dir = mgl64.Vec3{0, 0, 1}
	}
	*s = SlideState{
		Active:   true,
		Speed:    t.SlideStartSpeed,
		Dir:      dir,
		Cooldown: t.SlideCooldown,
	}
}

func (s *SlideState) end() {
	s.Active = false
}

// step applies friction and, on a slope, the downhill pull and steering.
// normal is the ground normal under the slide.
func (s *SlideState) step(normal mgl64.Vec3, dt float64, t Tuning) {
	s.Elapsed += dt
	s.Speed = math.Max(0, s.Speed-t.SlideFriction*dt)

	steepness := 1 - normal.Y()
	downhill, ok := common.Normalize(common.Horizontal(normal))
	if !ok || steepness < common.Epsilon {
		return
	}

	s.Speed = math.Max(0, s.Speed+t.SlopeGravity*steepness*s.Dir.Dot(downhill)*dt)

	blend := math.Min(1, t.SlideSteerRate*dt)
	steered := mgl64.Vec3{
		common.Lerp(s.Dir.X(), downhill.X(), blend),
		0,
		common.Lerp(s.Dir.Z(), downhill.Z(), blend),
	}
	if dir, ok := common.Normalize(steered); ok {
		s.Dir = dir
	}
}

// velocity is the horizontal slide velocity.
func (s *SlideState) velocity() mgl64.Vec3 {
	return s.Dir.Mul(s.Speed)
}

// redirect re-derives speed and direction from an externally changed velocity.
func (s *SlideState) redirect(vel mgl64.Vec3) {
	h := common.Horizontal(vel)
	s.Speed = h.Len()
	if dir, ok := common.Normalize(h); ok {
		s.Dir = dir
	}
}
