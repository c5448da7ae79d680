package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/scenesync/packet"
	"github.com/gogpu/scenesync/resource"
	"github.com/gogpu/scenesync/scene"
)

// sceneFile is the YAML layout of a demo scene.
type sceneFile struct {
	Lights   []lightSpec   `yaml:"lights"`
	Polygons []polygonSpec `yaml:"polygons"`
	Steps    []stepSpec    `yaml:"steps"`
}

type lightSpec struct {
	Name      string         `yaml:"name"`
	Type      string         `yaml:"type"` // ambient, directional or point
	Color     []float64      `yaml:"color"`
	Direction []float32      `yaml:"direction"`
	Position  []float32      `yaml:"position"`
	Range     *float32       `yaml:"range"`
	Translate []float32      `yaml:"translate"`
	Pulse     *colorAnimSpec `yaml:"pulse"`
}

type colorAnimSpec struct {
	From     []float64 `yaml:"from"`
	To       []float64 `yaml:"to"`
	Duration string    `yaml:"duration"`
	Repeat   bool      `yaml:"repeat"`
}

type polygonSpec struct {
	Name   string      `yaml:"name"`
	Fill   string      `yaml:"fill"` // evenodd or nonzero
	Points [][]float32 `yaml:"points"`
}

// stepSpec is one batch of changes applied after the scene is on its
// channels.
type stepSpec struct {
	Light     string    `yaml:"light"`
	Color     []float64 `yaml:"color"`
	Position  []float32 `yaml:"position"`
	Direction []float32 `yaml:"direction"`
	StopPulse bool      `yaml:"stopPulse"`
	Remove    bool      `yaml:"remove"`
}

func parseSceneFile(data []byte) (*sceneFile, error) {
	var f sceneFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &f, nil
}

// built is a scene ready to be put on channels.
type built struct {
	root     *scene.Model3DGroup
	lights   map[string]scene.Model3D
	polygons []*scene.Polygon
}

// resources returns the roots that channels reference.
func (b *built) resources() []resource.Resource {
	out := []resource.Resource{b.root}
	for _, p := range b.polygons {
		out = append(out, p)
	}
	return out
}

func (f *sceneFile) build(s *resource.Session) (*built, error) {
	b := &built{
		root:   scene.NewModel3DGroup(),
		lights: make(map[string]scene.Model3D),
	}
	for i, spec := range f.Lights {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("light%d", i)
		}
		if _, dup := b.lights[name]; dup {
			return nil, fmt.Errorf("light %q defined twice", name)
		}
		l, err := spec.build(s)
		if err != nil {
			return nil, fmt.Errorf("light %q: %w", name, err)
		}
		b.lights[name] = l
		if err := b.root.Add(s, l); err != nil {
			return nil, err
		}
	}
	for _, spec := range f.Polygons {
		p, err := spec.build(s)
		if err != nil {
			return nil, fmt.Errorf("polygon %q: %w", spec.Name, err)
		}
		b.polygons = append(b.polygons, p)
	}
	return b, nil
}

// colorSetter is implemented by every light.
type colorSetter interface {
	SetColor(*resource.Session, gputypes.Color) error
	AnimateColor(*resource.Session, *scene.ColorAnimation) error
}

func (spec lightSpec) build(s *resource.Session) (scene.Model3D, error) {
	var (
		l     scene.Model3D
		color colorSetter
		errs  []error
	)
	switch spec.Type {
	case "ambient":
		a := scene.NewAmbientLight(gputypes.ColorWhite)
		l, color = a, a
	case "directional":
		d := scene.NewDirectionalLight()
		if spec.Direction != nil {
			errs = append(errs, withVec3(spec.Direction, func(v f32.Vec3) error { return d.SetDirection(s, v) }))
		}
		if spec.Translate != nil {
			errs = append(errs, withVec3(spec.Translate, func(v f32.Vec3) error {
				return d.SetTransform(s, scene.NewTranslateTransform3D(v))
			}))
		}
		l, color = d, d
	case "point":
		p := scene.NewPointLight(f32.Vec3{})
		if spec.Position != nil {
			errs = append(errs, withVec3(spec.Position, func(v f32.Vec3) error { return p.SetPosition(s, v) }))
		}
		if spec.Range != nil {
			errs = append(errs, p.SetRange(s, *spec.Range))
		}
		if spec.Translate != nil {
			errs = append(errs, withVec3(spec.Translate, func(v f32.Vec3) error {
				return p.SetTransform(s, scene.NewTranslateTransform3D(v))
			}))
		}
		l, color = p, p
	default:
		return nil, fmt.Errorf("unknown light type %q", spec.Type)
	}

	if spec.Color != nil {
		errs = append(errs, withColor(spec.Color, func(c gputypes.Color) error { return color.SetColor(s, c) }))
	}
	if spec.Pulse != nil {
		a, err := spec.Pulse.build(s)
		errs = append(errs, err)
		if err == nil {
			errs = append(errs, color.AnimateColor(s, a))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return l, nil
}

func (spec colorAnimSpec) build(s *resource.Session) (*scene.ColorAnimation, error) {
	from, err := toColor(spec.From)
	if err != nil {
		return nil, fmt.Errorf("pulse from: %w", err)
	}
	to, err := toColor(spec.To)
	if err != nil {
		return nil, fmt.Errorf("pulse to: %w", err)
	}
	d, err := time.ParseDuration(spec.Duration)
	if err != nil || d < 0 {
		return nil, fmt.Errorf("pulse duration %q: %w", spec.Duration, scene.ErrInvalidDuration)
	}
	a := scene.NewColorAnimation(from, to, d)
	if err := a.SetRepeat(s, spec.Repeat); err != nil {
		return nil, err
	}
	return a, nil
}

func (spec polygonSpec) build(s *resource.Session) (*scene.Polygon, error) {
	pts := make([]f32.Vec2, len(spec.Points))
	for i, p := range spec.Points {
		if len(p) != 2 {
			return nil, fmt.Errorf("point %d has %d coordinates, want 2", i, len(p))
		}
		pts[i] = f32.Vec2{p[0], p[1]}
	}
	poly := scene.NewPolygon(pts...)
	switch spec.Fill {
	case "", "evenodd":
	case "nonzero":
		if err := poly.SetFillRule(s, packet.FillNonZero); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w %q", scene.ErrInvalidFillRule, spec.Fill)
	}
	return poly, nil
}

// apply runs one step as a single batch on the named light.
func (st stepSpec) apply(s *resource.Session, b *built) error {
	m, ok := b.lights[st.Light]
	if !ok {
		return fmt.Errorf("step: unknown light %q", st.Light)
	}
	if st.Remove {
		_, err := b.root.Remove(s, m)
		delete(b.lights, st.Light)
		return err
	}

	type batcher interface {
		Batch(*resource.Session, func() error) error
	}
	return m.(batcher).Batch(s, func() error {
		var errs []error
		if st.Color != nil {
			errs = append(errs, withColor(st.Color, func(c gputypes.Color) error {
				return m.(colorSetter).SetColor(s, c)
			}))
		}
		if st.StopPulse {
			errs = append(errs, m.(colorSetter).AnimateColor(s, nil))
		}
		if st.Position != nil {
			p, ok := m.(*scene.PointLight)
			if !ok {
				return fmt.Errorf("step: light %q has no position", st.Light)
			}
			errs = append(errs, withVec3(st.Position, func(v f32.Vec3) error { return p.SetPosition(s, v) }))
		}
		if st.Direction != nil {
			d, ok := m.(*scene.DirectionalLight)
			if !ok {
				return fmt.Errorf("step: light %q has no direction", st.Light)
			}
			errs = append(errs, withVec3(st.Direction, func(v f32.Vec3) error { return d.SetDirection(s, v) }))
		}
		return errors.Join(errs...)
	})
}

func withVec3(v []float32, fn func(f32.Vec3) error) error {
	if len(v) != 3 {
		return fmt.Errorf("vector needs 3 components, got %d", len(v))
	}
	return fn(f32.Vec3{v[0], v[1], v[2]})
}

func withColor(v []float64, fn func(gputypes.Color) error) error {
	c, err := toColor(v)
	if err != nil {
		return err
	}
	return fn(c)
}

// toColor accepts [r g b] or [r g b a].
func toColor(v []float64) (gputypes.Color, error) {
	switch len(v) {
	case 3:
		return gputypes.NewColorRGB(v[0], v[1], v[2]), nil
	case 4:
		return gputypes.NewColor(v[0], v[1], v[2], v[3]), nil
	default:
		return gputypes.Color{}, fmt.Errorf("color needs 3 or 4 components, got %d", len(v))
	}
}
