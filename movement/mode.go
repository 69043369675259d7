package movement

// ModeKind identifies a locomotion mode without its payload.
type ModeKind int

const (
	KindGrounded ModeKind = iota
	KindAirborne
	KindSliding
	KindWallRunning
)

func (k ModeKind) String() string {
	switch k {
	case KindGrounded:
		return "grounded"
	case KindAirborne:
		return "airborne"
	case KindSliding:
		return "sliding"
	case KindWallRunning:
		return "wallrunning"
	default:
		return "unknown"
	}
}

// Side is the lateral side a wall was found on, relative to the camera.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// Sign is -1 for left, +1 for right, 0 for none.
func (s Side) Sign() float64 {
	switch s {
	case SideLeft:
		return -1
	case SideRight:
		return 1
	default:
		return 0
	}
}

func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideNone
	}
}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// Mode is the active locomotion mode. The set of implementations is closed:
// Grounded, Airborne, Sliding and WallRunning.
type Mode interface {
	Kind() ModeKind
	String() string
	isMode()
}

type Grounded struct{}

type Airborne struct{}

type Sliding struct{}

type WallRunning struct {
	Side Side
}

func (Grounded) Kind() ModeKind    { return KindGrounded }
func (Airborne) Kind() ModeKind    { return KindAirborne }
func (Sliding) Kind() ModeKind     { return KindSliding }
func (WallRunning) Kind() ModeKind { return KindWallRunning }

func (Grounded) String() string { return KindGrounded.String() }
func (Airborne) String() string { return KindAirborne.String() }
func (Sliding) String() string  { return KindSliding.String() }
func (m WallRunning) String() string {
	return KindWallRunning.String() + "(" + m.Side.String() + ")"
}

func (Grounded) isMode()    {}
func (Airborne) isMode()    {}
func (Sliding) isMode()     {}
func (WallRunning) isMode() {}
