package scene

import (
	"slices"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/packet"
	"github.com/gogpu/scenesync/property"
	"github.com/gogpu/scenesync/resource"
)

var (
	polygonPoints = property.New[[]f32.Vec2]("Points", nil, property.Equal(slices.Equal[[]f32.Vec2]))
	polygonFill   = property.New("FillRule", packet.FillEvenOdd, property.Validate(func(f packet.FillRule) error {
		if f != packet.FillEvenOdd && f != packet.FillNonZero {
			return ErrInvalidFillRule
		}
		return nil
	}))
)

// Polygon is a single closed figure through Points.
//
// A polygon with no points is sent as the explicit empty geometry rather
// than as a figure with zero points.
type Polygon struct {
	node
}

// NewPolygon creates a polygon through pts. The slice is copied.
func NewPolygon(pts ...f32.Vec2) *Polygon {
	p := &Polygon{}
	p.init(packet.TypePathGeometry, p)
	if len(pts) > 0 {
		_ = property.SetValue(p.props, polygonPoints, slices.Clone(pts))
	}
	p.dirty = false
	return p
}

// Points returns a copy of the polygon's points.
func (p *Polygon) Points() []f32.Vec2 { return slices.Clone(property.Get(p.props, polygonPoints)) }

// FillRule returns the fill rule. The default is EvenOdd.
func (p *Polygon) FillRule() packet.FillRule { return property.Get(p.props, polygonFill) }

// IsEmpty reports whether the polygon has no points.
func (p *Polygon) IsEmpty() bool { return len(property.Get(p.props, polygonPoints)) == 0 }

// SetPoints replaces the points. A nil or empty pts makes the polygon empty.
func (p *Polygon) SetPoints(s *resource.Session, pts []f32.Vec2) error {
	if len(pts) == 0 {
		return clearValue(s, &p.node, polygonPoints)
	}
	return setValue(s, &p.node, polygonPoints, slices.Clone(pts))
}

// SetFillRule changes the fill rule.
func (p *Polygon) SetFillRule(s *resource.Session, f packet.FillRule) error {
	return setValue(s, &p.node, polygonFill, f)
}

func (p *Polygon) command(_ *resource.Session, _ *channel.Channel, h packet.Handle) packet.Command {
	pts := property.Get(p.props, polygonPoints)
	if len(pts) == 0 {
		return packet.PathGeometry{Handle: h, FillRule: p.FillRule(), Flags: packet.FlagEmpty}
	}
	return packet.PathGeometry{
		Handle:   h,
		FillRule: p.FillRule(),
		Flags:    packet.FlagClosed,
		Points:   pts,
	}
}

func (p *Polygon) owned() []resource.Resource { return nil }
