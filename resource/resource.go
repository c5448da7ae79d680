package resource

import (
	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/packet"
)

// Resource is anything that can be mirrored on a channel: lights,
// transforms, animations, geometry, groups. Owners hold sub-resources through
// this interface and call it polymorphically.
type Resource interface {
	// AddRefOnChannel adds a reference on ch, creating and fully
	// initializing the remote mirror on the first reference.
	AddRefOnChannel(s *Session, ch *channel.Channel) (packet.Handle, error)

	// ReleaseOnChannel drops a reference on ch, releasing owned
	// sub-resources and the remote mirror on the last one.
	ReleaseOnChannel(s *Session, ch *channel.Channel) error

	// Handle returns the resource's handle on ch, or ErrNotOnChannel.
	Handle(s *Session, ch *channel.Channel) (packet.Handle, error)
}

// AddRef adds a reference to r on ch. A nil r is a no-op returning
// packet.NullHandle.
func AddRef(s *Session, r Resource, ch *channel.Channel) (packet.Handle, error) {
	if r == nil {
		return packet.NullHandle, nil
	}
	return r.AddRefOnChannel(s, ch)
}

// Release drops a reference to r on ch. A nil r is a no-op.
func Release(s *Session, r Resource, ch *channel.Channel) error {
	if r == nil {
		return nil
	}
	return r.ReleaseOnChannel(s, ch)
}

// HandleOf returns r's handle on ch, or packet.NullHandle if r is nil or not
// on ch.
func HandleOf(s *Session, r Resource, ch *channel.Channel) packet.Handle {
	if r == nil {
		return packet.NullHandle
	}
	h, err := r.Handle(s, ch)
	if err != nil {
		return packet.NullHandle
	}
	return h
}
