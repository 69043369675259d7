package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/wallrun/movement"
	"github.com/milk9111/wallrun/recoil"
	"github.com/milk9111/wallrun/session"
)

// Settings is the typed form of a preset file. Every field has a default, so
// a preset only needs to list what it changes.
type Settings struct {
	Name     string       `yaml:"name"`
	Body     BodySpec     `yaml:"body"`
	Movement MovementSpec `yaml:"movement"`
	Jump     JumpSpec     `yaml:"jump"`
	Probe    ProbeSpec    `yaml:"probe"`
	Slide    SlideSpec    `yaml:"slide"`
	WallRun  WallRunSpec  `yaml:"wallrun"`
	Dash     DashSpec     `yaml:"dash"`
	Camera   CameraSpec   `yaml:"camera"`
	Recoil   RecoilSpec   `yaml:"recoil"`
}

type BodySpec struct {
	Height          float64 `yaml:"height"`
	Radius          float64 `yaml:"radius"`
	StepOffset      float64 `yaml:"step_offset"`
	CollisionBuffer float64 `yaml:"collision_buffer"`
}

type MovementSpec struct {
	Acceleration     float64 `yaml:"acceleration"`
	Friction         float64 `yaml:"friction"`
	MaxSpeed         float64 `yaml:"max_speed"`
	SprintMultiplier float64 `yaml:"sprint_multiplier"`
	SpeedCap         float64 `yaml:"speed_cap"`
	Gravity          float64 `yaml:"gravity"`
	AirControl       float64 `yaml:"air_control"`
	AirFriction      float64 `yaml:"air_friction"`
	AirDrag          float64 `yaml:"air_drag"`
}

type JumpSpec struct {
	Height        float64 `yaml:"height"`
	BufferTime    float64 `yaml:"buffer_time"`
	CoyoteTime    float64 `yaml:"coyote_time"`
	CutMultiplier float64 `yaml:"cut_multiplier"`
}

type ProbeSpec struct {
	GroundMinNormalY   float64   `yaml:"ground_min_normal_y"`
	GroundSnapDistance float64   `yaml:"ground_snap_distance"`
	WallDistance       float64   `yaml:"wall_distance"`
	WallHeights        []float64 `yaml:"wall_heights"`
	WallMaxNormalY     float64   `yaml:"wall_max_normal_y"`
	SlideIterations    int       `yaml:"slide_iterations"`
}

type SlideSpec struct {
	MinEntrySpeed float64 `yaml:"min_entry_speed"`
	StartSpeed    float64 `yaml:"start_speed"`
	Friction      float64 `yaml:"friction"`
	MinSpeed      float64 `yaml:"min_speed"`
	SlopeGravity  float64 `yaml:"slope_gravity"`
	SteerRate     float64 `yaml:"steer_rate"`
	Cooldown      float64 `yaml:"cooldown"`
	MinNormalY    float64 `yaml:"min_normal_y"`
}

type WallRunSpec struct {
	Speed        float64 `yaml:"speed"`
	MinSpeed     float64 `yaml:"min_speed"`
	MaxTime      float64 `yaml:"max_time"`
	GravityScale float64 `yaml:"gravity_scale"`
	MaxFall      float64 `yaml:"max_fall"`
	MaxRise      float64 `yaml:"max_rise"`
	Adhesion     float64 `yaml:"adhesion"`
	Standoff     float64 `yaml:"standoff"`
	KickOutward  float64 `yaml:"kick_outward"`
	KickUp       float64 `yaml:"kick_up"`
}

type DashSpec struct {
	Force                float64 `yaml:"force"`
	HorizontalScale      float64 `yaml:"horizontal_scale"`
	VerticalScale        float64 `yaml:"vertical_scale"`
	GroundVerticalFactor float64 `yaml:"ground_vertical_factor"`
	AirVerticalFactor    float64 `yaml:"air_vertical_factor"`
	MaxVerticalSpeed     float64 `yaml:"max_vertical_speed"`
	Cooldown             float64 `yaml:"cooldown"`
	BoostDuration        float64 `yaml:"boost_duration"`
	Multiplier           float64 `yaml:"multiplier"`
}

type CameraSpec struct {
	Height      float64 `yaml:"height"`
	SlideHeight float64 `yaml:"slide_height"`
	WallRunTilt float64 `yaml:"wallrun_tilt"`
	// Smoothing is the time in seconds the rig takes to reach a new target.
	Smoothing float64 `yaml:"smoothing"`
	Easing    string  `yaml:"easing"`
}

type RecoilSpec struct {
	Vertical     float64          `yaml:"vertical"`
	RecoveryRate float64          `yaml:"recovery_rate"`
	Hold         float64          `yaml:"hold"`
	MovingSpeed  float64          `yaml:"moving_speed"`
	Multipliers  RecoilMultiplier `yaml:"multipliers"`
}

type RecoilMultiplier struct {
	Standing    float64 `yaml:"standing"`
	Moving      float64 `yaml:"moving"`
	Sliding     float64 `yaml:"sliding"`
	WallRunning float64 `yaml:"wallrunning"`
	Airborne    float64 `yaml:"airborne"`
}

// Default returns the built-in settings the shipped presets start from.
func Default() Settings {
	t := movement.DefaultTuning()
	r := recoil.DefaultConfig()
	return Settings{
		Name: "default",
		Body: BodySpec{
			Height:          t.Height,
			Radius:          t.Radius,
			StepOffset:      t.StepOffset,
			CollisionBuffer: t.CollisionBuffer,
		},
		Movement: MovementSpec{
			Acceleration:     t.Acceleration,
			Friction:         t.Friction,
			MaxSpeed:         t.MaxSpeed,
			SprintMultiplier: t.SprintMultiplier,
			SpeedCap:         t.BaseSpeedCap,
			Gravity:          t.Gravity,
			AirControl:       t.AirControl,
			AirFriction:      t.AirFriction,
			AirDrag:          t.AirDrag,
		},
		Jump: JumpSpec{
			Height:        t.JumpHeight,
			BufferTime:    t.JumpBufferTime,
			CoyoteTime:    t.CoyoteTime,
			CutMultiplier: t.JumpCutMultiplier,
		},
		Probe: ProbeSpec{
			GroundMinNormalY:   t.GroundMinNormalY,
			GroundSnapDistance: t.GroundSnapDistance,
			WallDistance:       t.WallProbeDistance,
			WallHeights:        append([]float64(nil), t.WallProbeHeights...),
			WallMaxNormalY:     t.WallMaxNormalY,
			SlideIterations:    t.MaxSlideIterations,
		},
		Slide: SlideSpec{
			MinEntrySpeed: t.SlideMinEntrySpeed,
			StartSpeed:    t.SlideStartSpeed,
			Friction:      t.SlideFriction,
			MinSpeed:      t.SlideMinSpeed,
			SlopeGravity:  t.SlopeGravity,
			SteerRate:     t.SlideSteerRate,
			Cooldown:      t.SlideCooldown,
			MinNormalY:    t.SlideMinNormalY,
		},
		WallRun: WallRunSpec{
			Speed:        t.WallRunSpeed,
			MinSpeed:     t.WallRunMinSpeed,
			MaxTime:      t.WallRunMaxTime,
			GravityScale: t.WallRunGravityScale,
			MaxFall:      t.WallRunMaxFall,
			MaxRise:      t.WallRunMaxRise,
			Adhesion:     t.WallRunAdhesion,
			Standoff:     t.WallRunStandoff,
			KickOutward:  t.WallKickOutward,
			KickUp:       t.WallKickUp,
		},
		Dash: DashSpec{
			Force:                t.DashForce,
			HorizontalScale:      t.DashHorizontalScale,
			VerticalScale:        t.DashVerticalScale,
			GroundVerticalFactor: t.DashGroundVerticalFactor,
			AirVerticalFactor:    t.DashAirVerticalFactor,
			MaxVerticalSpeed:     t.DashMaxVerticalSpeed,
			Cooldown:             t.DashCooldown,
			BoostDuration:        t.DashBoostDuration,
			Multiplier:           t.DashMultiplier,
		},
		Camera: CameraSpec{
			Height:      t.CameraHeight,
			SlideHeight: t.SlideCameraHeight,
			WallRunTilt: t.WallRunCameraTilt,
			Smoothing:   0.2,
			Easing:      "out_quad",
		},
		Recoil: RecoilSpec{
			Vertical:     r.Vertical,
			RecoveryRate: r.RecoveryRate,
			Hold:         r.Hold,
			MovingSpeed:  r.MovingSpeed,
			Multipliers: RecoilMultiplier{
				Standing:    r.Multipliers.Standing,
				Moving:      r.Multipliers.Moving,
				Sliding:     r.Multipliers.Sliding,
				WallRunning: r.Multipliers.WallRunning,
				Airborne:    r.Multipliers.Airborne,
			},
		},
	}
}

// Parse overlays YAML on the defaults and validates the result.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Parse(data []byte) (Settings, error) {
	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Marshal renders settings back to YAML.
func Marshal(s Settings) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// Tuning converts the settings to movement constants.
func (s Settings) Tuning() movement.Tuning {
	return movement.Tuning{
		Height:          s.Body.Height,
		Radius:          s.Body.Radius,
		StepOffset:      s.Body.StepOffset,
		CollisionBuffer: s.Body.CollisionBuffer,

		Acceleration:     s.Movement.Acceleration,
		Friction:         s.Movement.Friction,
		MaxSpeed:         s.Movement.MaxSpeed,
		SprintMultiplier: s.Movement.SprintMultiplier,
		BaseSpeedCap:     s.Movement.SpeedCap,

		Gravity:           s.Movement.Gravity,
		JumpHeight:        s.Jump.Height,
		AirControl:        s.Movement.AirControl,
		AirFriction:       s.Movement.AirFriction,
		AirDrag:           s.Movement.AirDrag,
		JumpBufferTime:    s.Jump.BufferTime,
		CoyoteTime:        s.Jump.CoyoteTime,
		JumpCutMultiplier: s.Jump.CutMultiplier,

		GroundMinNormalY:   s.Probe.GroundMinNormalY,
		GroundSnapDistance: s.Probe.GroundSnapDistance,
		WallProbeDistance:  s.Probe.WallDistance,
		WallProbeHeights:   append([]float64(nil), s.Probe.WallHeights...),
		WallMaxNormalY:     s.Probe.WallMaxNormalY,
		MaxSlideIterations: s.Probe.SlideIterations,

		CameraHeight:      s.Camera.Height,
		SlideCameraHeight: s.Camera.SlideHeight,
		WallRunCameraTilt: s.Camera.WallRunTilt,

		SlideMinEntrySpeed: s.Slide.MinEntrySpeed,
		SlideStartSpeed:    s.Slide.StartSpeed,
		SlideFriction:      s.Slide.Friction,
		SlideMinSpeed:      s.Slide.MinSpeed,
		SlopeGravity:       s.Slide.SlopeGravity,
		SlideSteerRate:     s.Slide.SteerRate,
		SlideCooldown:      s.Slide.Cooldown,
		SlideMinNormalY:    s.Slide.MinNormalY,

		WallRunSpeed:        s.WallRun.Speed,
		WallRunMinSpeed:     s.WallRun.MinSpeed,
		WallRunMaxTime:      s.WallRun.MaxTime,
		WallRunGravityScale: s.WallRun.GravityScale,
		WallRunMaxFall:      s.WallRun.MaxFall,
		WallRunMaxRise:      s.WallRun.MaxRise,
		WallRunAdhesion:     s.WallRun.Adhesion,
		WallRunStandoff:     s.WallRun.Standoff,
		WallKickOutward:     s.WallRun.KickOutward,
		WallKickUp:          s.WallRun.KickUp,

		DashForce:                s.Dash.Force,
		DashHorizontalScale:      s.Dash.HorizontalScale,
		DashVerticalScale:        s.Dash.VerticalScale,
		DashGroundVerticalFactor: s.Dash.GroundVerticalFactor,
		DashAirVerticalFactor:    s.Dash.AirVerticalFactor,
		DashMaxVerticalSpeed:     s.Dash.MaxVerticalSpeed,
		DashCooldown:             s.Dash.Cooldown,
		DashBoostDuration:        s.Dash.BoostDuration,
		DashMultiplier:           s.Dash.Multiplier,
	}
}

func (s Settings) RecoilConfig() recoil.Config {
	m := s.Recoil.Multipliers
	return recoil.Config{
		Vertical:     s.Recoil.Vertical,
		RecoveryRate: s.Recoil.RecoveryRate,
		Hold:         s.Recoil.Hold,
		MovingSpeed:  s.Recoil.MovingSpeed,
		Multipliers: recoil.Multipliers{
			Standing:    m.Standing,
			Moving:      m.Moving,
			Sliding:     m.Sliding,
			WallRunning: m.WallRunning,
			Airborne:    m.Airborne,
		},
	}
}

// CameraConfig converts the camera section to rig settings. Heights and tilt live in
// Tuning since the controller publishes them as targets.
func (s Settings) CameraConfig() session.CameraConfig {
	return session.CameraConfig{
		Smoothing: s.Camera.Smoothing,
		Easing:    s.Camera.Easing,
	}
}
