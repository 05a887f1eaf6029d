package perf_test

import (
	"encoding/binary"
	"testing"

	"github.com/momentics/hioload-vsock/fake"
	"github.com/momentics/hioload-vsock/perf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_WireLayout(t *testing.T) {
	b := perf.Message{Opcode: perf.OpStart, Length: 128 << 10}.Encode()
	assert.Len(t, b, 16)
	assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(b[0:]))
	assert.Equal(t, uint64(131072), binary.LittleEndian.Uint64(b[8:]))

	assert.Equal(t, perf.Opcode(2), perf.OpData)
	assert.Equal(t, perf.Opcode(3), perf.OpEnd)
}

func TestMessage_DecodeKeepsUnknownOpcodes(t *testing.T) {
	var b [perf.MessageSize]byte
	binary.LittleEndian.PutUint64(b[0:], 77)
	m := perf.DecodeMessage(b)
	assert.Equal(t, perf.Opcode(77), m.Opcode)
	assert.Equal(t, "opcode(77)", m.Opcode.String())
}

func TestReadMessage_AssemblesPartialReads(t *testing.T) {
	in := perf.Message{Opcode: perf.OpData, Length: 4096}
	b := in.Encode()
	conn := fake.NewConn(b[:], 3)

	got, err := perf.ReadMessage(conn)
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.Equal(t, 6, conn.RecvCalls)
}

func TestWriteMessage_LoopsPartialSends(t *testing.T) {
	conn := fake.NewConn(nil, 5)
	require.NoError(t, perf.WriteMessage(conn, perf.Message{Opcode: perf.OpEnd}))
	assert.Len(t, conn.Sent(), perf.MessageSize)
	assert.Equal(t, 4, conn.SendCalls)
}
