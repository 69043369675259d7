package script

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/wallrun/common"
	"github.com/milk9111/wallrun/movement"
)

const (
	defaultFrames = 600
	defaultDt     = 1.0 / 60
	maxAllocs     = 1 << 20
)

// The script defines update(p, state) returning the input for the frame.
// Globals frames and dt optionally set the run length and step.
const dispatchScript = `
if __phase == "update" {
	__out = update(__engine, __state)
}
`

// Driver feeds a controller with input produced by a tengo script, one call
// per frame.
type Driver struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	frames   int
	dt       float64
	logf     func(format string, args ...any)

	// frame being run, for log lines
	frame uint64
}

// Compile prepares src and resolves its frames and dt globals.
func Compile(name string, src []byte) (*Driver, error) {
	d := &Driver{
		name:   name,
		state:  &tengo.Map{Value: map[string]tengo.Object{}},
		frames: defaultFrames,
		dt:     defaultDt,
		logf:   log.Printf,
	}

	full := string(src) + "\n" + dispatchScript
	s := tengo.NewScript([]byte(full))
	globals := []struct {
		name  string
		value any
	}{
		{"__phase", ""},
		{"__engine", map[string]any{}},
		{"__state", map[string]any{}},
		{"__out", nil},
		{"log", &tengo.UserFunction{Name: "log", Value: d.log}},
	}
	for _, g := range globals {
		if err := s.Add(g.name, g.value); err != nil {
			return nil, fmt.Errorf("script: %s: add %s: %w", name, g.name, err)
		}
	}
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	s.SetMaxAllocs(maxAllocs)

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	d.compiled = compiled

	// run once without update so top-level globals are evaluated
	if err := d.run(context.Background(), "noop", &tengo.ImmutableMap{Value: map[string]tengo.Object{}}); err != nil {
		return nil, fmt.Errorf("script: init %s: %w", name, err)
	}
	if !compiled.IsDefined("update") {
		return nil, fmt.Errorf("script: %s: missing update function", name)
	}
	if compiled.IsDefined("frames") {
		if n := compiled.Get("frames").Int(); n > 0 {
			d.frames = n
		}
	}
	if compiled.IsDefined("dt") {
		if dt := compiled.Get("dt").Float(); dt > 0 && common.FiniteScalar(dt) {
			d.dt = dt
		}
	}
	return d, nil
}

func (d *Driver) Name() string { return d.name }
func (d *Driver) Frames() int  { return d.frames }
func (d *Driver) Dt() float64  { return d.dt }

// SetLogger redirects the script's log() calls.
func (d *Driver) SetLogger(logf func(format string, args ...any)) {
	if logf != nil {
		d.logf = logf
	}
}

// Next runs update for the frame described by snap. done is true when the
// script returned {done: true}; the returned input is still valid.
func (d *Driver) Next(ctx context.Context, snap movement.Snapshot) (in movement.Input, done bool, err error) {
	d.frame = snap.Frame
	if err := d.run(ctx, "update", d.engine(snap)); err != nil {
		return movement.Input{}, true, fmt.Errorf("script: %s frame %d: %w", d.name, snap.Frame, err)
	}
	in, done, err = inputFromObject(d.compiled.Get("__out").Object())
	if err != nil {
		return movement.Input{}, true, fmt.Errorf("script: %s frame %d: %w", d.name, snap.Frame, err)
	}
	return in, done, nil
}

func (d *Driver) run(ctx context.Context, phase string, engine *tengo.ImmutableMap) error {
	if err := d.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := d.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := d.compiled.Set("__state", d.state); err != nil {
		return err
	}
	if err := d.compiled.Set("__out", nil); err != nil {
		return err
	}
	return d.compiled.RunContext(ctx)
}

func (d *Driver) engine(snap movement.Snapshot) *tengo.ImmutableMap {
	side := ""
	if snap.WallSide != movement.SideNone {
		side = snap.WallSide.String()
	}
	mode := ""
	if snap.Mode != nil {
		mode = snap.Mode.Kind().String()
	}

	values := map[string]tengo.Object{
		"frame":        &tengo.Int{Value: int64(snap.Frame)},
		"time":         &tengo.Float{Value: float64(snap.Frame) * d.dt},
		"dt":           &tengo.Float{Value: d.dt},
		"mode":         &tengo.String{Value: mode},
		"wall":         &tengo.String{Value: side},
		"wall_contact": boolObject(snap.WallContact),
		"grounded":     boolObject(snap.Grounded),
		"speed":        &tengo.Float{Value: snap.HorizontalSpeed()},
		"pos":          vecObject(snap.Position),
		"vel":          vecObject(snap.Velocity),
		"dash_ready":   boolObject(snap.DashCooldown == 0),
		"dash_active":  boolObject(snap.DashActive),
		"slide_speed":  &tengo.Float{Value: snap.SlideSpeed},
		"wall_elapsed": &tengo.Float{Value: snap.WallRunElapsed},
	}

	return &tengo.ImmutableMap{Value: values}
}

// log backs the script's global log(...). It never fails the script.
func (d *Driver) log(args ...tengo.Object) (tengo.Object, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, objectAsString(a))
	}
	d.logf("script %s: frame %d: %s", d.name, d.frame, strings.Join(parts, " "))
	return tengo.UndefinedValue, nil
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func vecObject(v mgl64.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v.X()},
		&tengo.Float{Value: v.Y()},
		&tengo.Float{Value: v.Z()},
	}}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

// inputFromObject reads the map update returned. Undefined means no input.
func inputFromObject(obj tengo.Object) (movement.Input, bool, error) {
	var fields map[string]tengo.Object
	switch v := obj.(type) {
	case nil:
		return movement.Input{}, false, nil
	case *tengo.Map:
		fields = v.Value
	case *tengo.ImmutableMap:
		fields = v.Value
	default:
		if obj == tengo.UndefinedValue {
			return movement.Input{}, false, nil
		}
		return movement.Input{}, false, fmt.Errorf("update must return a map, got %s", obj.TypeName())
	}

	var (
		in   movement.Input
		done bool
	)
	for key, val := range fields {
		switch key {
		case "move_x", "move_z", "yaw", "pitch":
			f, ok := tengo.ToFloat64(val)
			if !ok || !common.FiniteScalar(f) {
				return movement.Input{}, false, fmt.Errorf("%s: expected a number, got %s", key, val.TypeName())
			}
			switch key {
			case "move_x":
				in.MoveX = common.Clamp(f, -1, 1)
			case "move_z":
				in.MoveZ = common.Clamp(f, -1, 1)
			case "yaw":
				in.Yaw = f
			case "pitch":
				in.Pitch = f
			}
		case "sprint", "crouch", "jump", "dash", "shoot", "done":
			b, _ := tengo.ToBool(val)
			switch key {
			case "sprint":
				in.Sprint = b
			case "crouch":
				in.Crouch = b
			case "jump":
				in.Jump = b
			case "dash":
				in.Dash = b
			case "shoot":
				in.Shoot = b
			case "done":
				done = b
			}
		default:
			return movement.Input{}, false, fmt.Errorf("unknown input key %q", key)
		}
	}
	return in, done, nil
}
