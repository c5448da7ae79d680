package scene

import (
	"slices"

	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/packet"
	"github.com/gogpu/scenesync/property"
	"github.com/gogpu/scenesync/resource"
)

var groupTransform = newTransformProperty("Transform")

// Model3DGroup groups lights and other groups under one transform.
//
// A child added while the group is on channels is added to each of them
// before the group is resent; a removed child is released from each after.
type Model3DGroup struct {
	node
	children []Model3D
}

// NewModel3DGroup creates a group holding children.
func NewModel3DGroup(children ...Model3D) *Model3DGroup {
	g := &Model3DGroup{}
	g.init(packet.TypeModel3DGroup, g)
	for _, c := range children {
		g.checkChild(c)
	}
	g.children = slices.Clone(children)
	return g
}

func (g *Model3DGroup) isModel() {}

func (g *Model3DGroup) isNilNode() bool { return g == nil }

func (g *Model3DGroup) checkChild(c Model3D) {
	if isNil(c) {
		panic("scene: nil child")
	}
	if contains(c, g) {
		panic("scene: group added to itself or to one of its descendants")
	}
}

// contains reports whether g is c or somewhere below c. Groups only ever
// hold acyclic subtrees, so the walk ends.
func contains(c Model3D, g *Model3DGroup) bool {
	cg, ok := c.(*Model3DGroup)
	if !ok {
		return false
	}
	if cg == g {
		return true
	}
	for _, k := range cg.children {
		if contains(k, g) {
			return true
		}
	}
	return false
}

// Children returns a copy of the group's children.
func (g *Model3DGroup) Children() []Model3D { return slices.Clone(g.children) }

// Len returns the number of children.
func (g *Model3DGroup) Len() int { return len(g.children) }

// Add appends c. The same child may be added more than once. Adding a nil
// child, the group itself, or a group that already contains g panics.
func (g *Model3DGroup) Add(s *resource.Session, c Model3D) error {
	s.Check()
	g.checkChild(c)
	if err := g.addOnChannels(s, c); err != nil {
		return err
	}
	g.children = append(g.children, c)
	g.markDirty()
	return g.flush(s)
}

// Remove removes the first occurrence of c and reports whether it was found.
func (g *Model3DGroup) Remove(s *resource.Session, c Model3D) (bool, error) {
	s.Check()
	i := slices.Index(g.children, c)
	if i < 0 {
		return false, nil
	}
	g.children = slices.Delete(g.children, i, i+1)
	g.markDirty()
	g.deferRelease(s, c)
	return true, g.flush(s)
}

// Clear removes every child.
func (g *Model3DGroup) Clear(s *resource.Session) error {
	s.Check()
	if len(g.children) == 0 {
		return nil
	}
	for _, c := range g.children {
		g.deferRelease(s, c)
	}
	g.children = nil
	g.markDirty()
	return g.flush(s)
}

// Transform returns the group's transform, or nil.
func (g *Model3DGroup) Transform() Transform3D { return property.Get(g.props, groupTransform) }

// SetTransform replaces the group's transform.
func (g *Model3DGroup) SetTransform(s *resource.Session, t Transform3D) error {
	return setOwned(s, &g.node, groupTransform, t)
}

func (g *Model3DGroup) command(s *resource.Session, ch *channel.Channel, h packet.Handle) packet.Command {
	kids := make([]packet.Handle, len(g.children))
	for i, c := range g.children {
		kids[i] = resource.HandleOf(s, c, ch)
	}
	return packet.Model3DGroup{
		Handle:    h,
		Transform: transformHandle(s, g.Transform(), ch),
		Children:  kids,
	}
}

func (g *Model3DGroup) owned() []resource.Resource {
	out := ownedTransform(g.Transform())
	for _, c := range g.children {
		out = append(out, c)
	}
	return out
}
