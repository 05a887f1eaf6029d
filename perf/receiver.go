// File: perf/receiver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package perf

import (
	"errors"
	"fmt"
	"io"

	"github.com/momentics/hioload-vsock/api"
	"github.com/momentics/hioload-vsock/pool"
	"github.com/momentics/hioload-vsock/transport"
)

// receive expects Start, then drains Data chunks until End. There is no
// receive timeout: a sender that never sends End blocks this call.
func (s *Session) receive(conn api.Conn) error {
	start, err := ReadMessage(conn)
	if err != nil {
		return err
	}
	if start.Opcode != OpStart {
		return violation("expected start message", start)
	}
	if start.Length > MaxChunkSize {
		return violation("announced chunk size too large", start)
	}
	s.ChunkSize = int(start.Length)

	bp := pool.ForSize(s.ChunkSize)
	buf := bp.GetBuffer()
	defer bp.PutBuffer(buf)

	s.setState(Transferring)
	for {
		m, err := ReadMessage(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("peer closed before end message: %w", err)
			}
			return err
		}
		switch m.Opcode {
		case OpEnd:
			s.setState(Done)
			return nil
		case OpData:
			if m.Length > uint64(s.ChunkSize) {
				return violation("data length exceeds announced chunk size", m)
			}
			n, err := transport.RecvFull(conn, buf[:m.Length])
			s.Bytes += uint64(n)
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = io.ErrUnexpectedEOF
				}
				return fmt.Errorf("receive payload: %w", err)
			}
			s.intervals.observe(s.now(), s.Bytes)
		default:
			return violation("unexpected opcode", m)
		}
	}
}
