package perf_test

import (
	"bytes"
	"testing"

	"github.com/momentics/hioload-vsock/perf"
)

//go:generate mockgen -destination mock_conn_test.go -package perf_test -write_package_comment=false github.com/momentics/hioload-vsock/api Conn

// script builds a receiver-side byte stream from messages; Data messages
// are followed by their payload.
func script(msgs ...perf.Message) []byte {
	var buf bytes.Buffer
	for _, m := range msgs {
		b := m.Encode()
		buf.Write(b[:])
		if m.Opcode == perf.OpData {
			buf.Write(bytes.Repeat([]byte{perf.FillerByte}, int(m.Length)))
		}
	}
	return buf.Bytes()
}

// parse splits a sender-side byte stream back into messages, checking that
// every Data message is followed by its payload.
func parse(t *testing.T, stream []byte) []perf.Message {
	t.Helper()
	var out []perf.Message
	for len(stream) > 0 {
		if len(stream) < perf.MessageSize {
			t.Fatalf("truncated message: %d trailing bytes", len(stream))
		}
		var b [perf.MessageSize]byte
		copy(b[:], stream)
		m := perf.DecodeMessage(b)
		stream = stream[perf.MessageSize:]
		if m.Opcode == perf.OpData {
			if uint64(len(stream)) < m.Length {
				t.Fatalf("truncated payload: want %d, have %d", m.Length, len(stream))
			}
			stream = stream[m.Length:]
		}
		out = append(out, m)
	}
	return out
}
