package session

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/wallrun/common"
	"github.com/milk9111/wallrun/movement"
	"github.com/milk9111/wallrun/recoil"
)

// maxPitch keeps the view just short of straight up or down.
const maxPitch = math.Pi/2 - 0.01

type Options struct {
	Tuning movement.Tuning
	Recoil recoil.Config
	Camera CameraConfig
	World  movement.Raycaster
	Spawn  mgl64.Vec3
	Tracer Tracer
}

// Tracer receives gameplay events as they happen. Implementations must not
// mutate the session.
type Tracer interface {
	Transition(frame uint64, from, to movement.Mode)
	Shot(frame uint64, mode movement.Mode, kick float64)
}

// LogTracer writes events through a standard logger.
type LogTracer struct {
	Logger *log.Logger
}

func (t LogTracer) logger() *log.Logger {
	if t.Logger == nil {
		return log.Default()
	}
	return t.Logger
}

func (t LogTracer) Transition(frame uint64, from, to movement.Mode) {
	t.logger().Printf("frame %d: %v -> %v", frame, from, to)
}

func (t LogTracer) Shot(frame uint64, mode movement.Mode, kick float64) {
	t.logger().Printf("frame %d: shot while %v, kick %.3f", frame, mode, kick)
}

// View is what a renderer needs for one frame.
type View struct {
	Frame  uint64
	Eye    mgl64.Vec3
	Yaw    float64
	Pitch  float64
	Roll   float64
	Recoil float64
	Mode   movement.Mode
	Speed  float64
}

func (v View) Look() mgl64.Vec3 {
	return common.Look(v.Yaw, v.Pitch)
}

// Session runs one player through the frame pipeline: movement, then recoil,
// then the camera rig, then the view.
type Session struct {
	Controller *movement.Controller
	Recoil     *recoil.Coupler
	Camera     *CameraRig

	scheduler *Scheduler
	tracer    Tracer

	frame     uint64
	dt        float64
	input     movement.Input
	snap      movement.Snapshot
	shootHeld bool
	kick      float64
	view      View
}

func New(opts Options) *Session {
	ctrl := movement.New(opts.Tuning, opts.World, opts.Spawn)
	s := &Session{
		Controller: ctrl,
		Recoil:     recoil.New(opts.Recoil, ctrl),
		Camera:     NewCameraRig(opts.Camera, opts.Tuning.CameraHeight),
		tracer:     opts.Tracer,
		snap:       ctrl.Snapshot(),
	}
	s.scheduler = NewScheduler(
		SystemFunc(movementSystem),
		SystemFunc(recoilSystem),
		SystemFunc(cameraSystem),
		SystemFunc(viewSystem),
	)
	if s.tracer != nil {
		ctrl.OnTransition(func(from, to movement.Mode) {
			s.tracer.Transition(s.frame, from, to)
		})
	}
	viewSystem(s)
	return s
}

// Step advances the session by dt seconds. Non-positive or non-finite steps
// leave everything untouched.
func (s *Session) Step(dt float64, in movement.Input) View {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return s.view
	}
	s.frame++
	s.dt = dt
	s.input = in
	s.kick = 0
	s.scheduler.Update(s)
	return s.view
}

// Scheduler exposes the pipeline so tools can append their own systems.
func (s *Session) Scheduler() *Scheduler { return s.scheduler }

func (s *Session) Frame() uint64               { return s.frame }
func (s *Session) Dt() float64                 { return s.dt }
func (s *Session) Input() movement.Input       { return s.input }
func (s *Session) Snapshot() movement.Snapshot { return s.snap }
func (s *Session) View() View                  { return s.view }

// Kick is the recoil applied this frame, zero when no shot fired.
func (s *Session) Kick() float64 { return s.kick }

func movementSystem(s *Session) {
	s.snap = s.Controller.Tick(s.dt, s.input)
}

// recoilSystem fires on the rising edge of the shoot button only.
func recoilSystem(s *Session) {
	if s.input.Shoot && !s.shootHeld {
		s.kick = s.Recoil.Shoot()
		if s.tracer != nil {
			s.tracer.Shot(s.frame, s.snap.Mode, s.kick)
		}
	}
	s.shootHeld = s.input.Shoot
	s.Recoil.Update(s.dt)
}

func cameraSystem(s *Session) {
	s.Camera.Update(s.dt, s.snap.CameraHeight, s.snap.CameraTilt)
}

func viewSystem(s *Session) {
	recoilOffset := s.Recoil.Offset()
	s.view = View{
		Frame:  s.frame,
		Eye:    s.snap.Position.Add(common.Up.Mul(s.Camera.Height())),
		Yaw:    s.input.Yaw,
		Pitch:  common.Clamp(s.input.Pitch+recoilOffset, -maxPitch, maxPitch),
		Roll:   s.Camera.Tilt(),
		Recoil: recoilOffset,
		Mode:   s.snap.Mode,
		Speed:  s.snap.HorizontalSpeed(),
	}
}
