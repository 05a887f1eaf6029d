// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package transport

import (
	"io"

	"github.com/momentics/hioload-vsock/api"
)

// SendAll writes p in full, re-slicing the remainder after every partial
// send. It returns the number of bytes written before any error.
func SendAll(c api.Conn, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := c.Send(p[total:], api.MsgNone)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// RecvFull fills p, looping over partial reads. A stream that ends before
// the first byte yields io.EOF; one that ends inside p yields
// io.ErrUnexpectedEOF.
func RecvFull(c api.Conn, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := c.Recv(p[total:], api.MsgWaitAll)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			if total == 0 {
				return 0, io.EOF
			}
			return total, io.ErrUnexpectedEOF
		}
	}
	return total, nil
}

// NetConn exposes an api.Conn as an io.ReadWriteCloser.
type NetConn struct {
	conn api.Conn
}

// NewNetConn initializes a new NetConn.
func NewNetConn(conn api.Conn) *NetConn {
	return &NetConn{conn: conn}
}

// Read performs a single receive; peer shutdown is reported as io.EOF.
func (n *NetConn) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	r, err := n.conn.Recv(buf, api.MsgNone)
	if err != nil {
		return r, err
	}
	if r == 0 {
		return 0, io.EOF
	}
	return r, nil
}

// Write sends buf in full.
func (n *NetConn) Write(buf []byte) (int, error) {
	return SendAll(n.conn, buf)
}

// Close the connection.
func (n *NetConn) Close() error {
	return n.conn.Close()
}

// CloseWrite half-closes the connection when the underlying conn supports it.
func (n *NetConn) CloseWrite() error {
	if hc, ok := n.conn.(api.HalfCloser); ok {
		return hc.CloseWrite()
	}
	return api.ErrNotSupported
}
