// File: vsock/doc.go
// Package vsock
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Minimal transport over Linux VM sockets (AF_VSOCK). A Handle owns one
// stream descriptor and exposes the blocking socket primitives directly:
// Send and Recv keep the partial-I/O semantics of the kernel, so protocols
// built on top loop to assemble complete records. Addresses are converted to
// and from struct sockaddr_vm with the explicit Encode/Decode pair.

package vsock
