// File: vsock/addr.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Endpoint addressing for VM sockets and the explicit byte-level codec for
// the kernel's struct sockaddr_vm.

package vsock

import (
	"encoding/binary"
	"fmt"

	"github.com/momentics/hioload-vsock/api"
)

// Reserved context identifiers.
const (
	// CIDHypervisor is the reserved CID for the hypervisor.
	CIDHypervisor uint32 = 0
	// CIDLocal addresses the local loopback transport.
	CIDLocal uint32 = 1
	// CIDHost is the reserved CID of the host system.
	CIDHost uint32 = 2
	// CIDAny is the wildcard CID, valid only when binding.
	CIDAny uint32 = 0xFFFFFFFF
	// PortAny asks the kernel to pick a free port on bind.
	PortAny uint32 = 0xFFFFFFFF
)

// AFVsock is the Linux address family number of VM sockets.
const AFVsock = 40

// RawAddrLen is the size of struct sockaddr_vm.
const RawAddrLen = 16

// Field offsets inside struct sockaddr_vm.
const (
	offFamily    = 0
	offReserved1 = 2
	offPort      = 4
	offCID       = 8
	offFlags     = 12
)

// RawAddr is the binary form of struct sockaddr_vm in host byte order:
//
//	0  svm_family    u16
//	2  svm_reserved1 u16 (zero)
//	4  svm_port      u32
//	8  svm_cid       u32
//	12 svm_flags     u8  (zero)
//	13 svm_zero      [3]u8
type RawAddr [RawAddrLen]byte

// Addr identifies one side of a VM socket connection.
type Addr struct {
	ContextID uint32
	Port      uint32
}

// Network implements net.Addr.
func (a Addr) Network() string { return "vsock" }

// String implements net.Addr.
func (a Addr) String() string {
	return fmt.Sprintf("vm(%d):%d", a.ContextID, a.Port)
}

// Raw encodes the address.
func (a Addr) Raw() RawAddr {
	return Encode(a.ContextID, a.Port)
}

// Encode packs cid and port into a zero-filled sockaddr_vm.
func Encode(cid, port uint32) RawAddr {
	var raw RawAddr
	binary.NativeEndian.PutUint16(raw[offFamily:], AFVsock)
	binary.NativeEndian.PutUint32(raw[offPort:], port)
	binary.NativeEndian.PutUint32(raw[offCID:], cid)
	return raw
}

// Decode unpacks a sockaddr_vm returned by the kernel.
func Decode(raw RawAddr) (Addr, error) {
	family := binary.NativeEndian.Uint16(raw[offFamily:])
	if family != AFVsock {
		return Addr{}, fmt.Errorf("decode sockaddr: family %d: %w", family, api.ErrAddressFamilyMismatch)
	}
	return Addr{
		ContextID: binary.NativeEndian.Uint32(raw[offCID:]),
		Port:      binary.NativeEndian.Uint32(raw[offPort:]),
	}, nil
}
