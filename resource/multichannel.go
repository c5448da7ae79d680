package resource

import (
	"errors"
	"fmt"

	"github.com/gogpu/scenesync"
	"github.com/gogpu/scenesync/channel"
	"github.com/gogpu/scenesync/packet"
)

// entry is one channel's view of a resource.
type entry struct {
	ch   *channel.Channel
	h    packet.Handle
	refs int
}

// MultiChannel is the reference table of one logical resource: for every
// channel that references it, the remote handle and a reference count.
//
// Invariant: an entry exists for a channel if and only if its count is
// positive, and then its handle is live on that channel.
//
// The zero value is ready to use. MultiChannel has no internal locking;
// every method takes the Session that proves the composition lock is held.
type MultiChannel struct {
	entries []entry // most resources live on one or two channels
}

func (m *MultiChannel) find(ch *channel.Channel) int {
	for i := range m.entries {
		if m.entries[i].ch == ch {
			return i
		}
	}
	return -1
}

// Acquire adds a reference on ch. On the first reference it allocates a
// remote handle of type typ and reports first=true, telling the caller to
// send the resource's full state rather than an incremental update.
//
// Acquire fails on a disconnected channel even when the resource already
// holds a reference there: every handle on it is dead.
func (m *MultiChannel) Acquire(s *Session, ch *channel.Channel, typ packet.Type) (h packet.Handle, first bool, err error) {
	s.Check()
	if err := ch.Err(); err != nil {
		return packet.NullHandle, false, fmt.Errorf("acquire %v: %w", typ, err)
	}
	if i := m.find(ch); i >= 0 {
		m.entries[i].refs++
		scenesync.Logger().Debug("resource addref",
			"channel", ch.String(), "handle", uint32(m.entries[i].h), "refs", m.entries[i].refs)
		return m.entries[i].h, false, nil
	}

	h, err = ch.CreateResource(typ)
	if err != nil {
		return packet.NullHandle, false, fmt.Errorf("acquire %v: %w", typ, err)
	}
	m.entries = append(m.entries, entry{ch: ch, h: h, refs: 1})
	return h, true, nil
}

// Release drops a reference on ch. When the count reaches zero the entry is
// removed, the remote handle is released on the channel, and last=true tells
// the caller to release its owned sub-resources on ch.
//
// A disconnected channel does not stop the release: the entry is removed and
// last is still reported, since the remote side is gone anyway.
func (m *MultiChannel) Release(s *Session, ch *channel.Channel) (last bool, err error) {
	s.Check()
	i := m.find(ch)
	if i < 0 {
		return false, ErrNotOnChannel
	}

	e := &m.entries[i]
	e.refs--
	if e.refs > 0 {
		scenesync.Logger().Debug("resource release",
			"channel", ch.String(), "handle", uint32(e.h), "refs", e.refs)
		return false, nil
	}

	h := e.h
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	if err := ch.ReleaseResource(h); err != nil && !errors.Is(err, channel.ErrDisconnected) {
		return true, err
	}
	return true, nil
}

// Handle returns the resource's handle on ch. It returns ErrNotOnChannel
// when no reference is held, and an error wrapping channel.ErrDisconnected
// when ch has failed or been closed.
func (m *MultiChannel) Handle(s *Session, ch *channel.Channel) (packet.Handle, error) {
	s.Check()
	i := m.find(ch)
	if i < 0 {
		return packet.NullHandle, ErrNotOnChannel
	}
	if err := ch.Err(); err != nil {
		return packet.NullHandle, err
	}
	return m.entries[i].h, nil
}

// IsOnChannel reports whether the resource holds a reference on ch.
func (m *MultiChannel) IsOnChannel(s *Session, ch *channel.Channel) bool {
	s.Check()
	return m.find(ch) >= 0
}

// RefCount returns the number of references held on ch.
func (m *MultiChannel) RefCount(s *Session, ch *channel.Channel) int {
	s.Check()
	if i := m.find(ch); i >= 0 {
		return m.entries[i].refs
	}
	return 0
}

// ChannelCount returns the number of channels holding a reference.
func (m *MultiChannel) ChannelCount(s *Session) int {
	s.Check()
	return len(m.entries)
}

// ChannelAt returns the i-th channel holding a reference, in acquisition
// order. It panics if i is out of range.
func (m *MultiChannel) ChannelAt(s *Session, i int) *channel.Channel {
	s.Check()
	return m.entries[i].ch
}

// Channels returns a snapshot of the channels holding a reference.
// Callers that may release while iterating use this instead of ChannelAt.
func (m *MultiChannel) Channels(s *Session) []*channel.Channel {
	s.Check()
	out := make([]*channel.Channel, len(m.entries))
	for i := range m.entries {
		out[i] = m.entries[i].ch
	}
	return out
}

// Each calls fn for every channel holding a reference and joins the errors.
// fn may add or release references; iteration uses a snapshot.
func (m *MultiChannel) Each(s *Session, fn func(ch *channel.Channel) error) error {
	var errs []error
	for _, ch := range m.Channels(s) {
		if err := fn(ch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
