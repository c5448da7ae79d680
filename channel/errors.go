package channel

import "errors"

// Package errors for channels and handle tables.
var (
	// ErrDisconnected is returned by every operation on a channel whose
	// transport has failed or that has been closed. All handles allocated
	// on the channel are invalid once it is disconnected.
	ErrDisconnected = errors.New("channel: disconnected")

	// ErrInvalidHandle is returned by a handle table for a handle it did
	// not allocate or already freed. Channels treat it as a programming
	// error and panic.
	ErrInvalidHandle = errors.New("channel: invalid handle")

	// ErrHandleTableFull is returned when a channel's handle limit is reached.
	ErrHandleTableFull = errors.New("channel: handle table full")

	// ErrUnknownTransport is returned by OpenTransport for an unregistered name.
	ErrUnknownTransport = errors.New("channel: unknown transport")
)
