//go:build linux
// +build linux

// File: vsock/handle_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux transport handle over AF_VSOCK stream sockets.

package vsock

import (
	"net"
	"sync/atomic"

	"github.com/momentics/hioload-vsock/api"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Handle owns exactly one connection-oriented socket descriptor.
// A Handle must have a single owner; release it with defer h.Close().
type Handle struct {
	fd     int
	state  State
	closed atomic.Bool
}

var _ api.Conn = (*Handle)(nil)
var _ api.HalfCloser = (*Handle)(nil)

// Socket allocates a new, unconnected AF_VSOCK stream socket.
func Socket() (*Handle, error) {
	fd, err := unix.Socket(unix.AF_VSOCK, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, wrapErr("socket", nil, err)
	}
	logrus.WithFields(logrus.Fields{
		"function": "Socket",
		"fd":       fd,
	}).Debug("vsock socket allocated")
	return &Handle{fd: fd, state: StateCreated}, nil
}

// NewHandle adopts an already connected stream descriptor. The handle takes
// ownership and closes fd on Close.
func NewHandle(fd int) *Handle {
	return &Handle{fd: fd, state: StateConnected}
}

// State reports the lifecycle position of the handle.
func (h *Handle) State() State {
	if h.closed.Load() {
		return StateClosed
	}
	return h.state
}

// Connect blocks until the connection to peer completes or fails.
// Only one attempt is allowed per handle.
func (h *Handle) Connect(peer Addr) error {
	if err := h.require("connect", StateCreated, StateBound); err != nil {
		return err
	}
	raw := peer.Raw()
	if err := sysConnect(h.fd, &raw); err != nil {
		// The socket is spent after a failed attempt.
		h.state = StateFailed
		return wrapErr("connect", &peer, err)
	}
	h.state = StateConnected
	return nil
}

// Bind associates the handle with a local address. CIDAny requests the
// wildcard.
func (h *Handle) Bind(local Addr) error {
	if err := h.require("bind", StateCreated); err != nil {
		return err
	}
	raw := local.Raw()
	if err := sysBind(h.fd, &raw); err != nil {
		return wrapErr("bind", &local, err)
	}
	h.state = StateBound
	return nil
}

// Listen marks a bound handle as accepting; backlog bounds the queue of
// pending connections.
func (h *Handle) Listen(backlog int) error {
	if err := h.require("listen", StateBound); err != nil {
		return err
	}
	if err := unix.Listen(h.fd, backlog); err != nil {
		return wrapErr("listen", nil, err)
	}
	h.state = StateListening
	return nil
}

// Accept blocks until an incoming connection is queued and returns an
// independently owned handle for it. The listener stays usable.
func (h *Handle) Accept() (*Handle, error) {
	if err := h.require("accept", StateListening); err != nil {
		return nil, err
	}
	var raw RawAddr
	nfd, err := sysAccept(h.fd, &raw)
	if err != nil {
		return nil, wrapErr("accept", nil, err)
	}
	child := &Handle{fd: nfd, state: StateAccepted}
	if peer, derr := Decode(raw); derr == nil {
		logrus.WithFields(logrus.Fields{
			"function": "Accept",
			"peer":     peer.String(),
			"fd":       nfd,
		}).Debug("vsock connection accepted")
	}
	return child, nil
}

// Send performs one transport write and may write fewer bytes than
// requested. MSG_NOSIGNAL is always set.
func (h *Handle) Send(p []byte, flags api.MsgFlags) (int, error) {
	if h.closed.Load() {
		return 0, wrapErr("send", nil, api.ErrTransportClosed)
	}
	n, err := sysSend(h.fd, p, sysFlags(flags)|unix.MSG_NOSIGNAL)
	if err != nil {
		return n, wrapErr("send", nil, err)
	}
	return n, nil
}

// Recv performs one transport read. A return of 0 signals an orderly peer
// shutdown. With api.MsgWaitAll it blocks until p is full or the stream ends.
func (h *Handle) Recv(p []byte, flags api.MsgFlags) (int, error) {
	if h.closed.Load() {
		return 0, wrapErr("recv", nil, api.ErrTransportClosed)
	}
	n, err := sysRecv(h.fd, p, sysFlags(flags))
	if err != nil {
		return n, wrapErr("recv", nil, err)
	}
	return n, nil
}

// LocalAddr returns the address the handle is bound or connected on.
func (h *Handle) LocalAddr() (Addr, error) {
	if err := h.requireAddressed("getsockname"); err != nil {
		return Addr{}, err
	}
	var raw RawAddr
	if err := sysGetsockname(h.fd, &raw); err != nil {
		return Addr{}, wrapErr("getsockname", nil, err)
	}
	return Decode(raw)
}

// PeerAddr returns the address of the connected peer.
func (h *Handle) PeerAddr() (Addr, error) {
	switch h.State() {
	case StateConnected, StateAccepted:
	case StateClosed:
		return Addr{}, wrapErr("getpeername", nil, api.ErrTransportClosed)
	default:
		return Addr{}, wrapErr("getpeername", nil, api.ErrNotConnected)
	}
	var raw RawAddr
	if err := sysGetpeername(h.fd, &raw); err != nil {
		return Addr{}, wrapErr("getpeername", nil, err)
	}
	return Decode(raw)
}

// RemoteAddr implements api.Conn.
func (h *Handle) RemoteAddr() net.Addr {
	a, err := h.PeerAddr()
	if err != nil {
		return nil
	}
	return a
}

// RawFD returns the underlying descriptor.
func (h *Handle) RawFD() uintptr {
	return uintptr(h.fd)
}

// SetNonblock switches the descriptor between blocking and non-blocking
// mode. In non-blocking mode Send and Recv may fail with api.ErrWouldBlock.
func (h *Handle) SetNonblock(nonblocking bool) error {
	if h.closed.Load() {
		return wrapErr("setnonblock", nil, api.ErrTransportClosed)
	}
	return wrapErr("setnonblock", nil, unix.SetNonblock(h.fd, nonblocking))
}

// CloseWrite shuts down the sending side while still allowing receives.
func (h *Handle) CloseWrite() error {
	if h.closed.Load() {
		return wrapErr("shutdown", nil, api.ErrTransportClosed)
	}
	return wrapErr("shutdown", nil, unix.Shutdown(h.fd, unix.SHUT_WR))
}

// Close releases the descriptor. Subsequent calls are no-ops.
func (h *Handle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	return wrapErr("close", nil, unix.Close(h.fd))
}

func (h *Handle) require(op string, allowed ...State) error {
	cur := h.State()
	if cur == StateClosed {
		return wrapErr(op, nil, api.ErrTransportClosed)
	}
	for _, s := range allowed {
		if cur == s {
			return nil
		}
	}
	return &OpError{Op: op, Kind: api.ErrInvalidState, Err: stateError(cur)}
}

func (h *Handle) requireAddressed(op string) error {
	switch h.State() {
	case StateCreated, StateFailed:
		return wrapErr(op, nil, api.ErrNotConnected)
	case StateClosed:
		return wrapErr(op, nil, api.ErrTransportClosed)
	}
	return nil
}

func sysFlags(f api.MsgFlags) int {
	var out int
	if f&api.MsgWaitAll != 0 {
		out |= unix.MSG_WAITALL
	}
	if f&api.MsgDontWait != 0 {
		out |= unix.MSG_DONTWAIT
	}
	return out
}
