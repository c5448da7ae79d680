package channel

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// MaxFrameSize bounds frames read by ReadFrame.
const MaxFrameSize = 16 << 20

// StreamTransport writes length-prefixed frames to a byte stream such as a
// pipe or a socket. Each frame is preceded by its length as a little-endian
// uint32 and is written with a single Write call.
type StreamTransport struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte
}

// NewStreamTransport creates a transport writing to w. If w implements
// io.Closer, Close closes it.
func NewStreamTransport(w io.Writer) *StreamTransport {
	return &StreamTransport{w: w, buf: make([]byte, 0, 256)}
}

// WriteFrame writes one length-prefixed frame.
func (s *StreamTransport) WriteFrame(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// #nosec G115 -- frames are bounded by packet sizes, well under uint32 max
	s.buf = binary.LittleEndian.AppendUint32(s.buf[:0], uint32(len(frame)))
	s.buf = append(s.buf, frame...)
	if _, err := s.w.Write(s.buf); err != nil {
		return fmt.Errorf("stream write: %w", err)
	}
	return nil
}

// Close closes the underlying writer if it is an io.Closer.
func (s *StreamTransport) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ReadFrame reads one frame written by a StreamTransport.
// It returns io.EOF when r is exhausted on a frame boundary.
func ReadFrame(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if n > MaxFrameSize {
		return nil, fmt.Errorf("stream frame of %d bytes exceeds %d", n, MaxFrameSize)
	}
	frame := make([]byte, n)
	if _, err := io.ReadFull(r, frame); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return frame, nil
}
