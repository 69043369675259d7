package session

import (
	"math"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type CameraConfig struct {
	// Smoothing is how long, in seconds, the rig takes to reach a new target.
	// Zero snaps immediately.
	Smoothing float64
	Easing    string
}

func DefaultCameraConfig() CameraConfig {
	return CameraConfig{Smoothing: 0.2, Easing: "out_quad"}
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"in_sine":      ease.InSine,
	"out_sine":     ease.OutSine,
	"in_out_sine":  ease.InOutSine,
	"out_expo":     ease.OutExpo,
	"out_back":     ease.OutBack,
}

// KnownEasing reports whether name selects one of the rig's easing curves.
func KnownEasing(name string) bool {
	_, ok := easings[name]
	return ok
}

func Easings() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// easedValue chases a target with a fresh tween every time the target moves.
type easedValue struct {
	current float64
	target  float64
	tween   *gween.Tween
}

func (v *easedValue) retarget(target float64, cfg CameraConfig) {
	if math.Abs(target-v.target) < 1e-9 {
		return
	}
	v.target = target
	if cfg.Smoothing <= 0 {
		v.current = target
		v.tween = nil
		return
	}
	v.tween = gween.New(float32(v.current), float32(target), float32(cfg.Smoothing), easings[cfg.Easing])
}

func (v *easedValue) update(dt float64) {
	if v.tween == nil {
		return
	}
	current, done := v.tween.Update(float32(dt))
	v.current = float64(current)
	if done {
		v.current = v.target
		v.tween = nil
	}
}

func (v *easedValue) settle(value float64) {
	v.current = value
	v.target = value
	v.tween = nil
}

// CameraRig eases the eye height and roll tilt toward the targets the
// controller publishes. It only affects presentation.
type CameraRig struct {
	cfg    CameraConfig
	height easedValue
	tilt   easedValue
}

func NewCameraRig(cfg CameraConfig, height float64) *CameraRig {
	if _, ok := easings[cfg.Easing]; !ok {
		cfg.Easing = DefaultCameraConfig().Easing
	}
	r := &CameraRig{cfg: cfg}
	r.height.settle(height)
	return r
}

// Update moves the rig toward heightTarget and tiltTarget by dt seconds.
func (r *CameraRig) Update(dt, heightTarget, tiltTarget float64) {
	r.height.retarget(heightTarget, r.cfg)
	r.tilt.retarget(tiltTarget, r.cfg)
	if !(dt > 0) {
		return
	}
	r.height.update(dt)
	r.tilt.update(dt)
}

func (r *CameraRig) Height() float64 { return r.height.current }

// Tilt is the roll angle in degrees. Positive leans toward a right-hand wall.
func (r *CameraRig) Tilt() float64 { return r.tilt.current }

func (r *CameraRig) Settled() bool { return r.height.tween == nil && r.tilt.tween == nil }
