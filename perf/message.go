// File: perf/message.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Benchmark control message codec.

package perf

import (
	"encoding/binary"
	"fmt"

	"github.com/momentics/hioload-vsock/api"
	"github.com/momentics/hioload-vsock/transport"
)

// MessageSize is the fixed wire size of a control message.
const MessageSize = 16

// MaxChunkSize bounds the chunk size a receiver accepts in a Start message
// so a hostile or corrupt announcement cannot exhaust memory.
const MaxChunkSize = 1 << 30

// FillerByte is the constant payload content of Data chunks.
const FillerByte = 42

// Opcode identifies a control message.
type Opcode uint64

const (
	OpStart Opcode = 1 // Length carries the chunk size for the whole session
	OpData  Opcode = 2 // followed by Length payload bytes
	OpEnd   Opcode = 3 // Length is zero, nothing follows
)

func (o Opcode) String() string {
	switch o {
	case OpStart:
		return "start"
	case OpData:
		return "data"
	case OpEnd:
		return "end"
	}
	return fmt.Sprintf("opcode(%d)", uint64(o))
}

// Message is one control message: two little-endian u64 words.
type Message struct {
	Opcode Opcode
	Length uint64
}

// Encode serializes m into its 16-byte wire form.
func (m Message) Encode() [MessageSize]byte {
	var b [MessageSize]byte
	binary.LittleEndian.PutUint64(b[0:], uint64(m.Opcode))
	binary.LittleEndian.PutUint64(b[8:], m.Length)
	return b
}

// DecodeMessage parses a 16-byte wire message. Opcodes are not validated
// here; the receiver state machine decides what is legal.
func DecodeMessage(b [MessageSize]byte) Message {
	return Message{
		Opcode: Opcode(binary.LittleEndian.Uint64(b[0:])),
		Length: binary.LittleEndian.Uint64(b[8:]),
	}
}

// WriteMessage sends m in full.
func WriteMessage(c api.Conn, m Message) error {
	b := m.Encode()
	if _, err := transport.SendAll(c, b[:]); err != nil {
		return fmt.Errorf("send %s message: %w", m.Opcode, err)
	}
	return nil
}

// ReadMessage receives exactly one message.
func ReadMessage(c api.Conn) (Message, error) {
	var b [MessageSize]byte
	if _, err := transport.RecvFull(c, b[:]); err != nil {
		return Message{}, fmt.Errorf("receive message: %w", err)
	}
	return DecodeMessage(b), nil
}

func violation(msg string, m Message) error {
	return api.NewError(api.ErrCodeProtocolViolation, msg).
		WithContext("opcode", uint64(m.Opcode)).
		WithContext("length", m.Length)
}
