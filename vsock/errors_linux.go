//go:build linux
// +build linux

// File: vsock/errors_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Maps OS error numbers onto the api error taxonomy.

package vsock

import (
	"errors"

	"github.com/momentics/hioload-vsock/api"
	"golang.org/x/sys/unix"
)

// OpError is returned by Handle operations. It unwraps to both the api
// sentinel describing the failure and the raw errno.
type OpError struct {
	Op   string
	Addr *Addr
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	s := e.Op
	if e.Addr != nil {
		s += " " + e.Addr.String()
	}
	if e.Kind != nil {
		return s + ": " + e.Kind.Error()
	}
	return s + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() []error {
	if e.Kind == nil {
		return []error{e.Err}
	}
	return []error{e.Kind, e.Err}
}

func classify(op string, errno unix.Errno) error {
	switch errno {
	case unix.EMFILE, unix.ENFILE, unix.ENOBUFS, unix.ENOMEM:
		return api.ErrResourceExhausted
	case unix.ECONNREFUSED:
		return api.ErrConnectionRefused
	case unix.ECONNRESET:
		// vsock transports answer a connect to a closed port with a reset.
		if op == "connect" {
			return api.ErrConnectionRefused
		}
		return api.ErrConnectionReset
	case unix.EHOSTUNREACH, unix.ENETUNREACH, unix.ENODEV:
		return api.ErrNoRoute
	case unix.ETIMEDOUT:
		return api.ErrTimeout
	case unix.EADDRINUSE:
		return api.ErrAddressInUse
	case unix.ENOTCONN:
		return api.ErrNotConnected
	case unix.EPIPE:
		return api.ErrBrokenPipe
	case unix.EAGAIN:
		return api.ErrWouldBlock
	case unix.EAFNOSUPPORT, unix.EPROTONOSUPPORT, unix.EOPNOTSUPP:
		return api.ErrNotSupported
	case unix.EBADF:
		return api.ErrTransportClosed
	case unix.EINVAL:
		return api.ErrInvalidArgument
	}
	return nil
}

func wrapErr(op string, addr *Addr, err error) error {
	if err == nil {
		return nil
	}
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return &OpError{Op: op, Addr: addr, Err: err}
	}
	return &OpError{Op: op, Addr: addr, Kind: classify(op, errno), Err: errno}
}
