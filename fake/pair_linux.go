//go:build linux
// +build linux

// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"fmt"

	"github.com/momentics/hioload-vsock/vsock"
	"golang.org/x/sys/unix"
)

// Pair returns two connected stream handles backed by an AF_UNIX
// socketpair, for driving both ends of a protocol in one process. A positive
// sndbuf shrinks the kernel send buffers to force partial writes.
func Pair(sndbuf int) (*vsock.Handle, *vsock.Handle, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("socketpair: %w", err)
	}
	if sndbuf > 0 {
		for _, fd := range fds {
			_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, sndbuf)
			_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, sndbuf)
		}
	}
	return vsock.NewHandle(fds[0]), vsock.NewHandle(fds[1]), nil
}
