package channel

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/gogpu/gpucontext"
)

// TransportOptions carries the settings a transport opener may need.
// Each opener uses only the fields that apply to it.
type TransportOptions struct {
	// Name labels the channel for transports that keep per-channel
	// records (journal).
	Name string
	// Path is the storage location for persistent transports (journal).
	Path string
	// Writer is the byte stream for the stream transport.
	Writer io.Writer
}

// Opener opens a transport. Openers are registered via RegisterTransport and
// called by OpenTransport.
type Opener func(opts TransportOptions) (Transport, error)

// transports holds the registered openers. When no name is given,
// OpenTransport prefers durable transports over in-memory ones.
var transports = gpucontext.NewRegistry[Opener](
	gpucontext.WithPriority("journal", "stream", "memory"),
)

func init() {
	RegisterTransport("memory", func(TransportOptions) (Transport, error) {
		return NewMemoryTransport(), nil
	})
	RegisterTransport("stream", func(opts TransportOptions) (Transport, error) {
		if opts.Writer == nil {
			return nil, errors.New("channel: stream transport needs a writer")
		}
		return NewStreamTransport(opts.Writer), nil
	})
}

// RegisterTransport registers an opener under name, following the
// database/sql driver pattern:
//
//	func init() {
//	    channel.RegisterTransport("journal", open)
//	}
//
// RegisterTransport panics if open is nil or if name is already registered.
func RegisterTransport(name string, open Opener) {
	if open == nil {
		panic("channel: RegisterTransport opener is nil")
	}
	if transports.Has(name) {
		panic("channel: RegisterTransport called twice for " + name)
	}
	transports.Register(name, func() Opener { return open })
}

// UnregisterTransport removes a transport. Unknown names are ignored.
func UnregisterTransport(name string) {
	transports.Unregister(name)
}

// OpenTransport opens the transport registered under name. An empty name
// selects the highest-priority registered transport.
func OpenTransport(name string, opts TransportOptions) (Transport, error) {
	if name == "" {
		name = transports.BestName()
	}
	if !transports.Has(name) {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownTransport, name)
	}
	t, err := transports.Get(name)(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s transport: %w", name, err)
	}
	return t, nil
}

// Transports returns the sorted names of registered transports.
func Transports() []string {
	names := transports.Available()
	sort.Strings(names)
	return names
}
