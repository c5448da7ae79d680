package scene

import (
	"fmt"

	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/packet"
	"github.com/gogpu/scenesync/property"
	"github.com/gogpu/scenesync/resource"
)

// setValue assigns a local value and pushes the change to every channel the
// node is on.
func setValue[T any](s *resource.Session, n *node, d *property.Descriptor[T], v T) error {
	s.Check()
	if err := property.SetValue(n.props, d, v); err != nil {
		return err
	}
	return n.flush(s)
}

// clearValue returns d to its default and pushes the change.
func clearValue[T any](s *resource.Session, n *node, d *property.Descriptor[T]) error {
	s.Check()
	property.Clear(n.props, d)
	return n.flush(s)
}

// setOwned replaces a sub-resource held in property d, moving the node's
// references from the old value to the new one on every live channel.
//
// A typed nil pointer is stored as nil, so it encodes as packet.NullHandle.
func setOwned[T resource.Resource](s *resource.Session, n *node, d *property.Descriptor[T], v T) error {
	s.Check()
	if isNil(v) {
		var none T
		v = none
	}
	old := property.Get(n.props, d)
	if sameResource(old, v) {
		return nil
	}
	if err := n.addOnChannels(s, asResource(v)); err != nil {
		return err
	}
	if err := property.SetValue(n.props, d, v); err != nil {
		_ = n.releaseOnChannels(s, asResource(v))
		return err
	}
	n.deferRelease(s, asResource(old))
	return n.flush(s)
}

// animate binds anim to k, or removes the binding when anim is nil. The node
// holds one reference to a bound animation on each of its channels.
func (n *node) animate(s *resource.Session, k property.Key, anim resource.Resource) error {
	s.Check()
	if !k.Animatable() {
		return fmt.Errorf("%w: %s", property.ErrNotAnimatable, k.Name())
	}
	old := n.animation(k)
	if old == anim {
		return nil
	}
	if err := n.addOnChannels(s, anim); err != nil {
		return err
	}
	var bound any
	if anim != nil {
		bound = anim
	}
	if err := n.props.Animate(k, bound); err != nil {
		_ = n.releaseOnChannels(s, anim)
		return err
	}
	n.deferRelease(s, old)
	return n.flush(s)
}

// animation returns the animation bound to k, or nil.
func (n *node) animation(k property.Key) resource.Resource {
	r, _ := n.props.Animation(k).(resource.Resource)
	return r
}

// animHandle resolves the animation bound to k on ch.
func (n *node) animHandle(s *resource.Session, ch *channel.Channel, k property.Key) packet.Handle {
	return resource.HandleOf(s, n.animation(k), ch)
}

// animations collects the animations bound to keys, in key order. The
// order fixes the handle allocation order on a new channel.
func (n *node) animations(keys ...property.Key) []resource.Resource {
	var out []resource.Resource
	for _, k := range keys {
		if r := n.animation(k); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// addOnChannels adds one reference to r on every channel the node is on.
// On failure the references already taken are dropped again.
func (n *node) addOnChannels(s *resource.Session, r resource.Resource) error {
	if r == nil {
		return nil
	}
	chans := n.mc.Channels(s)
	for i, ch := range chans {
		if _, err := r.AddRefOnChannel(s, ch); err != nil {
			for _, done := range chans[:i] {
				_ = r.ReleaseOnChannel(s, done)
			}
			return err
		}
	}
	return nil
}

// releaseOnChannels drops one reference to r on every channel the node is on.
func (n *node) releaseOnChannels(s *resource.Session, r resource.Resource) error {
	if r == nil {
		return nil
	}
	return n.mc.Each(s, func(ch *channel.Channel) error {
		return r.ReleaseOnChannel(s, ch)
	})
}

func asResource[T resource.Resource](v T) resource.Resource {
	if isNil(v) {
		return nil
	}
	return v
}

// nilNode is implemented by every node pointer type, so a nil pointer held
// in an interface can be told apart from a live node.
type nilNode interface {
	isNilNode() bool
}

// isNil reports whether v is nil or a nil node pointer.
func isNil[T resource.Resource](v T) bool {
	if any(v) == nil {
		return true
	}
	n, ok := any(v).(nilNode)
	return ok && n.isNilNode()
}

func sameResource[T resource.Resource](a, b T) bool {
	return any(a) == any(b)
}
