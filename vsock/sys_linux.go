//go:build linux
// +build linux

// File: vsock/sys_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thin raw syscall wrappers. Addresses cross the kernel boundary only as
// RawAddr buffers produced by Encode or zero-filled before population.

package vsock

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func errnoErr(e unix.Errno) error {
	if e == 0 {
		return nil
	}
	return e
}

// ignoringEINTR repeats call while it is interrupted by a signal.
func ignoringEINTR(call func() (uintptr, unix.Errno)) (uintptr, unix.Errno) {
	for {
		r, e := call()
		if e != unix.EINTR {
			return r, e
		}
	}
}

// sysConnect restarts an interrupted connect; the kernel resets a vsock
// socket to unconnected when the wait is interrupted.
func sysConnect(fd int, raw *RawAddr) error {
	_, e := ignoringEINTR(func() (uintptr, unix.Errno) {
		_, _, e := unix.Syscall(unix.SYS_CONNECT, uintptr(fd), uintptr(unsafe.Pointer(raw)), RawAddrLen)
		return 0, e
	})
	return errnoErr(e)
}

func sysBind(fd int, raw *RawAddr) error {
	_, _, e := unix.Syscall(unix.SYS_BIND, uintptr(fd), uintptr(unsafe.Pointer(raw)), RawAddrLen)
	return errnoErr(e)
}

// sysAccept blocks until a connection is queued. raw is zeroed before the
// kernel fills it.
func sysAccept(fd int, raw *RawAddr) (int, error) {
	*raw = RawAddr{}
	l := uint32(RawAddrLen)
	nfd, e := ignoringEINTR(func() (uintptr, unix.Errno) {
		l = RawAddrLen
		nfd, _, e := unix.Syscall6(unix.SYS_ACCEPT4, uintptr(fd),
			uintptr(unsafe.Pointer(raw)), uintptr(unsafe.Pointer(&l)),
			unix.SOCK_CLOEXEC, 0, 0)
		return nfd, e
	})
	if e != 0 {
		return -1, e
	}
	return int(nfd), nil
}

func sysGetsockname(fd int, raw *RawAddr) error {
	*raw = RawAddr{}
	l := uint32(RawAddrLen)
	_, _, e := unix.RawSyscall(unix.SYS_GETSOCKNAME, uintptr(fd),
		uintptr(unsafe.Pointer(raw)), uintptr(unsafe.Pointer(&l)))
	return errnoErr(e)
}

func sysGetpeername(fd int, raw *RawAddr) error {
	*raw = RawAddr{}
	l := uint32(RawAddrLen)
	_, _, e := unix.RawSyscall(unix.SYS_GETPEERNAME, uintptr(fd),
		uintptr(unsafe.Pointer(raw)), uintptr(unsafe.Pointer(&l)))
	return errnoErr(e)
}

func sysSend(fd int, p []byte, flags int) (int, error) {
	n, e := ignoringEINTR(func() (uintptr, unix.Errno) {
		n, _, e := unix.Syscall6(unix.SYS_SENDTO, uintptr(fd),
			uintptr(unsafe.Pointer(unsafe.SliceData(p))), uintptr(len(p)),
			uintptr(flags), 0, 0)
		return n, e
	})
	if e != 0 {
		return 0, e
	}
	return int(n), nil
}

func sysRecv(fd int, p []byte, flags int) (int, error) {
	n, e := ignoringEINTR(func() (uintptr, unix.Errno) {
		n, _, e := unix.Syscall6(unix.SYS_RECVFROM, uintptr(fd),
			uintptr(unsafe.Pointer(unsafe.SliceData(p))), uintptr(len(p)),
			uintptr(flags), 0, 0)
		return n, e
	})
	if e != 0 {
		return 0, e
	}
	return int(n), nil
}
