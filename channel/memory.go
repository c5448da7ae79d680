package channel

import (
	"errors"
	"sync"

	"github.com/gogpu/scenesync/packet"
)

// errMemoryClosed is returned by a closed MemoryTransport.
var errMemoryClosed = errors.New("memory transport closed")

// MemoryTransport keeps every frame in memory. It is the loopback used by
// tests and by in-process compositors that poll for work.
//
// A failure can be injected with FailAfter to exercise the disconnection
// path.
type MemoryTransport struct {
	mu        sync.Mutex
	frames    [][]byte
	closed    bool
	failAfter int // frames accepted before failing; -1 means never
	failErr   error
}

// NewMemoryTransport creates an empty in-memory transport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{failAfter: -1}
}

// WriteFrame stores a copy of frame.
func (m *MemoryTransport) WriteFrame(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errMemoryClosed
	}
	if m.failAfter == 0 {
		return m.failErr
	}
	if m.failAfter > 0 {
		m.failAfter--
	}
	m.frames = append(m.frames, append([]byte(nil), frame...))
	return nil
}

// Close marks the transport closed. Later writes fail.
func (m *MemoryTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MemoryTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// FailAfter makes the transport accept n more frames and then fail every
// write with err.
func (m *MemoryTransport) FailAfter(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
	m.failErr = err
}

// Frames returns copies of the stored frames in write order.
func (m *MemoryTransport) Frames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.frames))
	for i, f := range m.frames {
		out[i] = append([]byte(nil), f...)
	}
	return out
}

// Commands decodes the stored frames.
func (m *MemoryTransport) Commands() ([]packet.Command, error) {
	frames := m.Frames()
	cmds := make([]packet.Command, 0, len(frames))
	for _, f := range frames {
		cmd, err := packet.Decode(f)
		if err != nil {
			return cmds, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// Len returns the number of stored frames.
func (m *MemoryTransport) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

// Reset drops the stored frames.
func (m *MemoryTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = m.frames[:0]
}
