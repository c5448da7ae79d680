package scene

import (
	"errors"
	"fmt"

	"github.com/gogpu/scenesync"
	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/packet"
	"github.com/gogpu/scenesync/property"
	"github.com/gogpu/scenesync/resource"
)

// encoder is implemented by every concrete node.
type encoder interface {
	// command builds the node's full update record for handle h on ch.
	command(s *resource.Session, ch *channel.Channel, h packet.Handle) packet.Command
	// owned returns the sub-resources that follow the node on and off
	// channels: transforms, bound animations, children.
	owned() []resource.Resource
}

// node is the channel machinery shared by every scene resource. Concrete
// nodes embed it and set self to themselves.
type node struct {
	typ      packet.Type
	mc       resource.MultiChannel
	props    *property.Store
	self     encoder
	dirty    bool
	batching int
	deferred []func() error
}

func (n *node) init(typ packet.Type, self encoder) {
	n.typ = typ
	n.self = self
	n.props = property.NewStore()
	n.props.OnChanged(func([]property.Key) { n.dirty = true })
}

// Type returns the node's resource type.
func (n *node) Type() packet.Type { return n.typ }

// AddRefOnChannel adds a reference on ch. The first reference creates the
// remote mirror, adds references to every owned sub-resource on ch, and sends
// one full update. Later references only bump the count.
//
// On failure the node and its sub-resources are left exactly as before.
func (n *node) AddRefOnChannel(s *resource.Session, ch *channel.Channel) (packet.Handle, error) {
	h, first, err := n.mc.Acquire(s, ch, n.typ)
	if err != nil {
		return packet.NullHandle, err
	}
	if !first {
		return h, nil
	}

	subs := n.self.owned()
	for i, r := range subs {
		if _, err := r.AddRefOnChannel(s, ch); err != nil {
			n.rollback(s, ch, subs[:i])
			return packet.NullHandle, fmt.Errorf("%v: add sub-resource: %w", n.typ, err)
		}
	}
	// Known to be on channel: skip the check.
	if err := n.UpdateResource(s, ch, true); err != nil {
		n.rollback(s, ch, subs)
		return packet.NullHandle, err
	}
	return h, nil
}

func (n *node) rollback(s *resource.Session, ch *channel.Channel, subs []resource.Resource) {
	_, _ = n.mc.Release(s, ch)
	for _, r := range subs {
		_ = r.ReleaseOnChannel(s, ch)
	}
}

// ReleaseOnChannel drops a reference on ch. The last reference releases the
// remote mirror and every owned sub-resource on ch, each exactly once.
func (n *node) ReleaseOnChannel(s *resource.Session, ch *channel.Channel) error {
	last, err := n.mc.Release(s, ch)
	if err != nil {
		return fmt.Errorf("%v release on %s: %w", n.typ, ch, err)
	}
	if !last {
		return nil
	}
	var errs []error
	for _, r := range n.self.owned() {
		if err := r.ReleaseOnChannel(s, ch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Handle returns the node's handle on ch.
func (n *node) Handle(s *resource.Session, ch *channel.Channel) (packet.Handle, error) {
	return n.mc.Handle(s, ch)
}

// IsOnChannel reports whether the node holds a reference on ch.
func (n *node) IsOnChannel(s *resource.Session, ch *channel.Channel) bool {
	return n.mc.IsOnChannel(s, ch)
}

// RefCount returns the number of references held on ch.
func (n *node) RefCount(s *resource.Session, ch *channel.Channel) int {
	return n.mc.RefCount(s, ch)
}

// ChannelCount returns the number of channels referencing the node.
func (n *node) ChannelCount(s *resource.Session) int {
	return n.mc.ChannelCount(s)
}

// ChannelAt returns the i-th channel referencing the node.
func (n *node) ChannelAt(s *resource.Session, i int) *channel.Channel {
	return n.mc.ChannelAt(s, i)
}

// UpdateResource sends the node's full resolved state on ch.
//
// If the node is not on ch the call is a no-op: a node may see a change
// after it was released from a channel. skipCheck asserts that the node is
// on ch and is only used right after creation. A disconnected ch fails with
// channel.ErrDisconnected either way.
func (n *node) UpdateResource(s *resource.Session, ch *channel.Channel, skipCheck bool) error {
	h, err := n.mc.Handle(s, ch)
	if err != nil {
		if !errors.Is(err, resource.ErrNotOnChannel) {
			return fmt.Errorf("%v update on %s: %w", n.typ, ch, err)
		}
		if skipCheck {
			panic(fmt.Sprintf("scene: %v UpdateResource(skipCheck) on %s where it is not on channel", n.typ, ch))
		}
		scenesync.Logger().Debug("update ignored, not on channel", "type", n.typ.String(), "channel", ch.String())
		return nil
	}
	return ch.Send(n.self.command(s, ch, h))
}

// Dirty reports whether a change is waiting to be pushed.
func (n *node) Dirty() bool { return n.dirty }

// Batch runs fn and pushes the node's state once, no matter how many
// properties fn changes.
func (n *node) Batch(s *resource.Session, fn func() error) error {
	s.Check()
	n.batching++
	err := n.props.Batch(func() error {
		defer func() { n.batching-- }()
		return fn()
	})
	if ferr := n.flush(s); ferr != nil {
		return errors.Join(err, ferr)
	}
	return err
}

// flush re-sends the full state on every live channel if anything changed,
// then runs the releases deferred by deferRelease. There is no diffing: one
// changed property re-sends all of them.
func (n *node) flush(s *resource.Session) error {
	if n.batching > 0 {
		return nil
	}
	var errs []error
	if n.dirty {
		n.dirty = false
		errs = append(errs, n.mc.Each(s, func(ch *channel.Channel) error {
			return n.UpdateResource(s, ch, false)
		}))
	}
	deferred := n.deferred
	n.deferred = nil
	for _, fn := range deferred {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}

// deferRelease drops one reference to r on each channel the node is on now,
// once the node has been resent. The receiver never sees the node point at
// a released handle.
func (n *node) deferRelease(s *resource.Session, r resource.Resource) {
	if r == nil {
		return
	}
	chans := n.mc.Channels(s)
	n.deferred = append(n.deferred, func() error {
		var errs []error
		for _, ch := range chans {
			errs = append(errs, r.ReleaseOnChannel(s, ch))
		}
		return errors.Join(errs...)
	})
}

// markDirty flags a change made outside the property store.
func (n *node) markDirty() { n.dirty = true }
