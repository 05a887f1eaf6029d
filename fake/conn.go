// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the core interfaces.

package fake

import (
	"bytes"
	"net"
	"sync"

	"github.com/momentics/hioload-vsock/api"
)

// Conn is an in-memory api.Conn. Inbound bytes are served from a script and
// every Send or Recv moves at most MaxChunk bytes, which exercises the
// partial-I/O loops of callers.
type Conn struct {
	mu        sync.Mutex
	inbound   bytes.Buffer
	sent      bytes.Buffer
	closed    bool
	sendError error
	recvError error
	remote    net.Addr

	// MaxChunk caps the bytes moved per call; 0 means unlimited.
	MaxChunk int

	SendCalls int
	RecvCalls int
}

var _ api.Conn = (*Conn)(nil)

// NewConn creates a fake connection that will deliver inbound to Recv.
func NewConn(inbound []byte, maxChunk int) *Conn {
	c := &Conn{MaxChunk: maxChunk}
	c.inbound.Write(inbound)
	return c
}

func (c *Conn) limit(n int) int {
	if c.MaxChunk > 0 && n > c.MaxChunk {
		return c.MaxChunk
	}
	return n
}

// Send implements api.Conn.Send.
func (c *Conn) Send(p []byte, _ api.MsgFlags) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.SendCalls++
	if c.closed {
		return 0, api.ErrTransportClosed
	}
	if c.sendError != nil {
		return 0, c.sendError
	}
	n := c.limit(len(p))
	c.sent.Write(p[:n])
	return n, nil
}

// Recv implements api.Conn.Recv. An exhausted script reads as peer shutdown
// unless a receive error is configured.
func (c *Conn) Recv(p []byte, _ api.MsgFlags) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.RecvCalls++
	if c.closed {
		return 0, api.ErrTransportClosed
	}
	if c.inbound.Len() == 0 && c.recvError != nil {
		return 0, c.recvError
	}
	n, _ := c.inbound.Read(p[:c.limit(len(p))])
	return n, nil
}

// RemoteAddr implements api.Conn.RemoteAddr.
func (c *Conn) RemoteAddr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote
}

// Close implements api.Conn.Close.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// RawFD implements api.Conn.RawFD.
func (c *Conn) RawFD() uintptr { return ^uintptr(0) }

// SetRemoteAddr configures the value returned by RemoteAddr.
func (c *Conn) SetRemoteAddr(a net.Addr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remote = a
}

// SetSendError configures the connection to return an error on Send.
func (c *Conn) SetSendError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendError = err
}

// SetRecvError configures the error returned once the inbound script is drained.
func (c *Conn) SetRecvError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recvError = err
}

// Sent returns a copy of everything written with Send.
func (c *Conn) Sent() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return bytes.Clone(c.sent.Bytes())
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
