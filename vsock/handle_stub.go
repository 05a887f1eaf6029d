//go:build !linux
// +build !linux

// File: vsock/handle_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package vsock

import (
	"fmt"
	"net"

	"github.com/momentics/hioload-vsock/api"
)

var errUnsupported = fmt.Errorf("vsock: this platform is not supported: %w", api.ErrNotSupported)

// Handle is unavailable outside Linux.
type Handle struct{}

// Socket returns an error for unsupported platforms.
func Socket() (*Handle, error) { return nil, errUnsupported }

// NewHandle returns an inert handle for unsupported platforms.
func NewHandle(fd int) *Handle { return &Handle{} }

func (h *Handle) State() State { return StateClosed }
func (h *Handle) Connect(Addr) error { return errUnsupported }
func (h *Handle) Bind(Addr) error { return errUnsupported }
func (h *Handle) Listen(int) error { return errUnsupported }
func (h *Handle) Accept() (*Handle, error) { return nil, errUnsupported }
func (h *Handle) Send([]byte, api.MsgFlags) (int, error) { return 0, errUnsupported }
func (h *Handle) Recv([]byte, api.MsgFlags) (int, error) { return 0, errUnsupported }
func (h *Handle) LocalAddr() (Addr, error) { return Addr{}, errUnsupported }
func (h *Handle) PeerAddr() (Addr, error) { return Addr{}, errUnsupported }
func (h *Handle) RemoteAddr() net.Addr { return nil }
func (h *Handle) RawFD() uintptr { return ^uintptr(0) }
func (h *Handle) SetNonblock(bool) error { return errUnsupported }
func (h *Handle) CloseWrite() error { return errUnsupported }
func (h *Handle) Close() error { return nil }
