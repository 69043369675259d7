package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance used when comparing timers and vector lengths.
const Epsilon = 1e-9

var Up = mgl64.Vec3{0, 1, 0}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	return mgl64.Clamp(v, lo, hi)
}

// Countdown subtracts dt from t, snapping results within Epsilon of zero to zero.
func Countdown(t, dt float64) float64 {
	t -= dt
	if t < Epsilon {
		return 0
	}
	return t
}

// Decay applies frame-rate independent exponential decay.
func Decay(v, rate, dt float64) float64 {
	return v * math.Exp(-rate*dt)
}

func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

func HorizontalLen(v mgl64.Vec3) float64 {
	return math.Hypot(v.X(), v.Z())
}

// WithHorizontal keeps v's vertical component and replaces x/z with h's.
func WithHorizontal(v, h mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{h.X(), v.Y(), h.Z()}
}

// Normalize returns the unit vector of v and false if v is degenerate.
// mgl64's Normalize divides by the length unconditionally.
func Normalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < 1e-6 || !Finite(v) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func FiniteScalar(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ProjectOnPlane removes the component of v along the unit normal n.
func ProjectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// ClampLen scales v down so its length does not exceed max.
func ClampLen(v mgl64.Vec3, max float64) mgl64.Vec3 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}

// Forward is the horizontal unit vector for a yaw in radians. Yaw 0 faces +Z.
func Forward(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

// Right is the horizontal unit vector 90 degrees clockwise of Forward.
func Right(yaw float64) mgl64.Vec3 {
	return Up.Cross(Forward(yaw))
}

// Look is the full view direction; positive pitch looks up.
func Look(yaw, pitch float64) mgl64.Vec3 {
	cp := math.Cos(pitch)
	return mgl64.Vec3{math.Sin(yaw) * cp, math.Sin(pitch), math.Cos(yaw) * cp}
}
