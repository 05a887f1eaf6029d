// File: vsock/dial.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package vsock

// Dial allocates a handle and connects it to peer.
func Dial(peer Addr) (*Handle, error) {
	h, err := Socket()
	if err != nil {
		return nil, err
	}
	if err := h.Connect(peer); err != nil {
		_ = h.Close()
		return nil, err
	}
	return h, nil
}

// Listen allocates a handle bound to local and marks it as accepting.
func Listen(local Addr, backlog int) (*Handle, error) {
	h, err := Socket()
	if err != nil {
		return nil, err
	}
	if err := h.Bind(local); err != nil {
		_ = h.Close()
		return nil, err
	}
	if err := h.Listen(backlog); err != nil {
		_ = h.Close()
		return nil, err
	}
	return h, nil
}
