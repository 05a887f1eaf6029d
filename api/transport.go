// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Defines the connection abstraction shared by the benchmark protocol and the
// relay loop. Send/Recv keep the partial-I/O semantics of the underlying
// socket: callers loop to assemble complete records.

package api

import "net"

// MsgFlags are per-call socket message flags (MSG_*).
type MsgFlags int

const (
	// MsgNone performs a plain send or receive.
	MsgNone MsgFlags = 0
	// MsgWaitAll blocks a receive until the buffer is full or the stream ends.
	MsgWaitAll MsgFlags = 0x100
	// MsgDontWait makes a single call non-blocking.
	MsgDontWait MsgFlags = 0x40
)

// Conn abstracts one connected, connection-oriented stream endpoint.
type Conn interface {
	// Send performs one transport write and may write fewer bytes than len(p).
	Send(p []byte, flags MsgFlags) (n int, err error)

	// Recv performs one transport read. n == 0 with a nil error means the
	// peer shut down its side in an orderly fashion.
	Recv(p []byte, flags MsgFlags) (n int, err error)

	// RemoteAddr returns the address of the remote endpoint, or nil when
	// it cannot be determined.
	RemoteAddr() net.Addr

	// Close releases the endpoint. Calling it more than once is a no-op.
	Close() error

	// RawFD returns the underlying OS-level file descriptor
	RawFD() uintptr
}

// HalfCloser is implemented by connections that can shut down their write
// side while still receiving.
type HalfCloser interface {
	CloseWrite() error
}
