package packet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// Format returns a single-line, human-readable form of cmd.
//
// Animated slots print as "@<handle>" in place of the static value, which
// mirrors the wire rule that the two are mutually exclusive:
//
//	DirectionalLight 3 transform=null color=(1 1 1 1) direction=@7
func Format(cmd Command) string {
	var sb strings.Builder
	sb.WriteString(cmd.Tag().String())
	if t := cmd.Target(); !t.IsNull() {
		sb.WriteByte(' ')
		sb.WriteString(t.String())
	}

	switch c := cmd.(type) {
	case Hello:
		field(&sb, "version", strconv.FormatUint(uint64(c.Version), 10))
	case CreateResource:
		field(&sb, "type", c.Type.String())
	case ReleaseResource:
	case AmbientLight:
		field(&sb, "color", colorSlotString(c.Color, c.ColorAnimation))
	case DirectionalLight:
		field(&sb, "transform", c.Transform.String())
		field(&sb, "color", colorSlotString(c.Color, c.ColorAnimation))
		field(&sb, "direction", vec3SlotString(c.Direction, c.DirectionAnimation))
	case PointLight:
		field(&sb, "transform", c.Transform.String())
		field(&sb, "color", colorSlotString(c.Color, c.ColorAnimation))
		field(&sb, "position", vec3SlotString(c.Position, c.PositionAnimation))
		field(&sb, "range", floatSlotString(c.Range, c.RangeAnimation))
		field(&sb, "attenuation", floats(c.ConstantAttenuation, c.LinearAttenuation, c.QuadraticAttenuation))
	case TranslateTransform3D:
		field(&sb, "offset", vec3SlotString(c.Offset, c.OffsetAnimation))
	case ScaleTransform3D:
		field(&sb, "scale", vec3SlotString(c.Scale, c.ScaleAnimation))
		field(&sb, "center", vec3String(c.Center))
	case MatrixTransform3D:
		field(&sb, "matrix", floats(c.Matrix[:]...))
	case Vector3Animation:
		field(&sb, "from", vec3String(c.From))
		field(&sb, "to", vec3String(c.To))
		field(&sb, "duration", strconv.FormatUint(uint64(c.DurationMS), 10)+"ms")
		if c.Flags&FlagRepeat != 0 {
			sb.WriteString(" repeat")
		}
	case ColorAnimation:
		field(&sb, "from", colorString(c.From))
		field(&sb, "to", colorString(c.To))
		field(&sb, "duration", strconv.FormatUint(uint64(c.DurationMS), 10)+"ms")
		if c.Flags&FlagRepeat != 0 {
			sb.WriteString(" repeat")
		}
	case ScalarAnimation:
		field(&sb, "from", floats(c.From))
		field(&sb, "to", floats(c.To))
		field(&sb, "duration", strconv.FormatUint(uint64(c.DurationMS), 10)+"ms")
		if c.Flags&FlagRepeat != 0 {
			sb.WriteString(" repeat")
		}
	case PathGeometry:
		field(&sb, "fill", c.FillRule.String())
		if c.IsEmpty() || len(c.Points) == 0 {
			sb.WriteString(" empty")
			break
		}
		if c.Flags&FlagClosed != 0 {
			sb.WriteString(" closed")
		}
		pts := make([]string, len(c.Points))
		for i, p := range c.Points {
			pts[i] = floats(p[0], p[1])
		}
		field(&sb, "points", "["+strings.Join(pts, " ")+"]")
	case Model3DGroup:
		field(&sb, "transform", c.Transform.String())
		ids := make([]string, len(c.Children))
		for i, h := range c.Children {
			ids[i] = h.String()
		}
		field(&sb, "children", "["+strings.Join(ids, " ")+"]")
	}
	return sb.String()
}

// Dump writes one Format line per command to w.
func Dump(w io.Writer, cmds ...Command) error {
	for _, cmd := range cmds {
		if _, err := fmt.Fprintln(w, Format(cmd)); err != nil {
			return err
		}
	}
	return nil
}

func field(sb *strings.Builder, name, value string) {
	sb.WriteByte(' ')
	sb.WriteString(name)
	sb.WriteByte('=')
	sb.WriteString(value)
}

func floats(vs ...float32) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func vec3String(v f32.Vec3) string { return floats(v[0], v[1], v[2]) }

func colorString(c gputypes.Color) string {
	return floats(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
}

func animString(h Handle) string { return "@" + h.String() }

func colorSlotString(c gputypes.Color, anim Handle) string {
	if !anim.IsNull() {
		return animString(anim)
	}
	return colorString(c)
}

func vec3SlotString(v f32.Vec3, anim Handle) string {
	if !anim.IsNull() {
		return animString(anim)
	}
	return vec3String(v)
}

func floatSlotString(v float32, anim Handle) string {
	if !anim.IsNull() {
		return animString(anim)
	}
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
