package level

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

type CourseSpec struct {
	Name   string      `yaml:"name"`
	Spawn  [3]float64  `yaml:"spawn"`
	Blocks []BlockSpec `yaml:"blocks"`
	Ramps  []RampSpec  `yaml:"ramps"`
}

// BlockSpec is either an axis-aligned box (min/max) or a convex footprint
// extruded from bottom to top.
type BlockSpec struct {
	Name      string       `yaml:"name"`
	Min       [3]float64   `yaml:"min"`
	Max       [3]float64   `yaml:"max"`
	Footprint [][2]float64 `yaml:"footprint"`
	Bottom    float64      `yaml:"bottom"`
	Top       float64      `yaml:"top"`
}

type RampSpec struct {
	Name string     `yaml:"name"`
	Min  [3]float64 `yaml:"min"`
	Max  [3]float64 `yaml:"max"`
	// Rise is the direction the surface climbs toward: +x, -x, +z or -z.
	Rise string `yaml:"rise"`
}

func ParseSpec(data []byte) (CourseSpec, error) {
	var spec CourseSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return CourseSpec{}, fmt.Errorf("level: decode: %w", err)
	}
	return spec, nil
}

// Build turns the spec into a queryable course.
func (spec CourseSpec) Build() (*Course, error) {
	solids := make([]*Solid, 0, len(spec.Blocks)+len(spec.Ramps))
	var errs []error

	for i, b := range spec.Blocks {
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("block%d", i)
		}
		var (
			s   *Solid
			err error
		)
		if len(b.Footprint) > 0 {
			footprint := make([]mgl64.Vec2, len(b.Footprint))
			for j, p := range b.Footprint {
				footprint[j] = mgl64.Vec2{p[0], p[1]}
			}
			s, err = newPrism(name, footprint, b.Bottom, b.Top)
		} else {
			s, err = newBox(name, vec3(b.Min), vec3(b.Max))
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		solids = append(solids, s)
	}

	for i, r := range spec.Ramps {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("ramp%d", i)
		}
		s, err := newRamp(name, vec3(r.Min), vec3(r.Max), r.Rise)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		solids = append(solids, s)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return NewCourse(spec.Name, vec3(spec.Spawn), solids)
}

// Parse decodes and builds a course in one step.
func Parse(data []byte) (*Course, error) {
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, err
	}
	return spec.Build()
}

func vec3(v [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}
