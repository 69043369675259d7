package movement

// Tuning is the full set of movement constants. Values are assumed valid;
// the config package rejects out-of-range settings before a Controller is built.
type Tuning struct {
	// Body
	Height          float64
	Radius          float64
	StepOffset      float64
	CollisionBuffer float64

	// Ground movement
	Acceleration     float64
	Friction         float64
	MaxSpeed         float64
	SprintMultiplier float64
	BaseSpeedCap     float64

	// Air
	Gravity           float64
	JumpHeight        float64
	AirControl        float64
	AirFriction       float64
	AirDrag           float64
	JumpBufferTime    float64
	CoyoteTime        float64
	JumpCutMultiplier float64

	// Probing
	GroundMinNormalY   float64
	GroundSnapDistance float64
	WallProbeDistance  float64
	WallProbeHeights   []float64
	WallMaxNormalY     float64
	MaxSlideIterations int

	// Camera targets
	CameraHeight      float64
	SlideCameraHeight float64
	WallRunCameraTilt float64

	// Slide
	SlideMinEntrySpeed float64
	SlideStartSpeed    float64
	SlideFriction      float64
	SlideMinSpeed      float64
	SlopeGravity       float64
	SlideSteerRate     float64
	SlideCooldown      float64
	SlideMinNormalY    float64

	// Wall run
	WallRunSpeed        float64
	WallRunMinSpeed     float64
	WallRunMaxTime      float64
	WallRunGravityScale float64
	WallRunMaxFall      float64
	WallRunMaxRise      float64
	WallRunAdhesion     float64
	WallRunStandoff     float64
	WallKickOutward     float64
	WallKickUp          float64

	// Dash
	DashForce                float64
	DashHorizontalScale      float64
	DashVerticalScale        float64
	DashGroundVerticalFactor float64
	DashAirVerticalFactor    float64
	DashMaxVerticalSpeed     float64
	DashCooldown             float64
	DashBoostDuration        float64
	DashMultiplier           float64
}

// DefaultTuning mirrors the shipped default preset.
func DefaultTuning() Tuning {
	return Tuning{
		Height:          1.8,
		Radius:          0.4,
		StepOffset:      0.5,
		CollisionBuffer: 0.1,

		Acceleration:     20,
		Friction:         15,
		MaxSpeed:         7,
		SprintMultiplier: 1.8,
		BaseSpeedCap:     45,

		Gravity:           4.9,
		JumpHeight:        2,
		AirControl:        0.3,
		AirFriction:       0,
		AirDrag:           0.5,
		JumpBufferTime:    0.12,
		CoyoteTime:        0.1,
		JumpCutMultiplier: 0.5,

		GroundMinNormalY:   0.7,
		GroundSnapDistance: 0.3,
		WallProbeDistance:  1.2,
		WallProbeHeights:   []float64{0.5, 1.0, 1.5},
		WallMaxNormalY:     0.5,
		MaxSlideIterations: 3,

		CameraHeight:      1.7,
		SlideCameraHeight: 1.0,
		WallRunCameraTilt: 15,

		SlideMinEntrySpeed: 5,
		SlideStartSpeed:    40,
		SlideFriction:      6,
		SlideMinSpeed:      2,
		SlopeGravity:       20,
		SlideSteerRate:     2,
		SlideCooldown:      2,
		SlideMinNormalY:    0.3,

		WallRunSpeed:        18,
		WallRunMinSpeed:     6,
		WallRunMaxTime:      8,
		WallRunGravityScale: 0.05,
		WallRunMaxFall:      2,
		WallRunMaxRise:      8,
		WallRunAdhesion:     20,
		WallRunStandoff:     0.5,
		WallKickOutward:     30,
		WallKickUp:          24,

		DashForce:                50,
		DashHorizontalScale:      1.5,
		DashVerticalScale:        0.6,
		DashGroundVerticalFactor: 0.5,
		DashAirVerticalFactor:    0.7,
		DashMaxVerticalSpeed:     30,
		DashCooldown:             1,
		DashBoostDuration:        0.5,
		DashMultiplier:           3,
	}
}

// GroundSpeedCap is the horizontal cap applied while accelerating on the ground.
func (t Tuning) GroundSpeedCap(sprint, boosted bool) float64 {
	limit := t.MaxSpeed
	if sprint {
		limit *= t.SprintMultiplier
	}
	if boosted {
		limit *= t.DashMultiplier
	}
	return limit
}

// SpeedCap is the dynamic cap on total velocity magnitude.
func (t Tuning) SpeedCap(boosted bool) float64 {
	if boosted {
		return t.BaseSpeedCap * t.DashMultiplier
	}
	return t.BaseSpeedCap
}
