package vsock_test

import (
	"encoding/binary"
	"testing"

	"github.com/momentics/hioload-vsock/api"
	"github.com/momentics/hioload-vsock/vsock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	pairs := []vsock.Addr{
		{ContextID: vsock.CIDHypervisor, Port: 0},
		{ContextID: vsock.CIDLocal, Port: 5201},
		{ContextID: vsock.CIDHost, Port: 1024},
		{ContextID: 3, Port: 0x7FFFFFFF},
		{ContextID: vsock.CIDAny, Port: vsock.PortAny},
		{ContextID: 0xDEADBEEF, Port: 0x01020304},
	}
	for _, in := range pairs {
		out, err := vsock.Decode(vsock.Encode(in.ContextID, in.Port))
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestEncode_Layout(t *testing.T) {
	raw := vsock.Encode(3, 5201)

	assert.Equal(t, uint16(vsock.AFVsock), binary.NativeEndian.Uint16(raw[0:]))
	assert.Equal(t, uint16(0), binary.NativeEndian.Uint16(raw[2:]), "reserved1 must be zero")
	assert.Equal(t, uint32(5201), binary.NativeEndian.Uint32(raw[4:]))
	assert.Equal(t, uint32(3), binary.NativeEndian.Uint32(raw[8:]))
	assert.Equal(t, []byte{0, 0, 0, 0}, raw[12:], "flags and padding must be zero")
}

func TestDecode_FamilyMismatch(t *testing.T) {
	raw := vsock.Encode(3, 5201)
	binary.NativeEndian.PutUint16(raw[0:], 1) // AF_UNIX

	_, err := vsock.Decode(raw)
	assert.ErrorIs(t, err, api.ErrAddressFamilyMismatch)

	_, err = vsock.Decode(vsock.RawAddr{})
	assert.ErrorIs(t, err, api.ErrAddressFamilyMismatch)
}

func TestAddr_NetAddr(t *testing.T) {
	a := vsock.Addr{ContextID: vsock.CIDHost, Port: 5201}
	assert.Equal(t, "vsock", a.Network())
	assert.Equal(t, "vm(2):5201", a.String())
	assert.Equal(t, vsock.Encode(2, 5201), a.Raw())
}
