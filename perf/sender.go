// File: perf/sender.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package perf

import (
	"fmt"

	"github.com/momentics/hioload-vsock/api"
	"github.com/momentics/hioload-vsock/pool"
	"github.com/momentics/hioload-vsock/transport"
)

// send announces the chunk size, streams Data chunks until the duration
// budget measured from session start is spent, then sends End.
func (s *Session) send(conn api.Conn) error {
	if s.ChunkSize < 1 {
		return fmt.Errorf("sender: %w: chunk size %d", api.ErrInvalidArgument, s.ChunkSize)
	}
	bp := pool.ForSize(s.ChunkSize)
	payload := bp.GetBuffer()
	defer bp.PutBuffer(payload)
	for i := range payload {
		payload[i] = FillerByte
	}

	s.setState(Announcing)
	if err := WriteMessage(conn, Message{Opcode: OpStart, Length: uint64(s.ChunkSize)}); err != nil {
		return err
	}

	s.setState(Transferring)
	hdr := Message{Opcode: OpData, Length: uint64(s.ChunkSize)}.Encode()
	for s.now().Sub(s.Start) < s.Duration {
		if _, err := transport.SendAll(conn, hdr[:]); err != nil {
			return fmt.Errorf("send data message: %w", err)
		}
		n, err := transport.SendAll(conn, payload)
		s.Bytes += uint64(n)
		if err != nil {
			return fmt.Errorf("send payload: %w", err)
		}
		s.intervals.observe(s.now(), s.Bytes)
	}

	s.setState(Finishing)
	if err := WriteMessage(conn, Message{Opcode: OpEnd}); err != nil {
		return err
	}
	s.setState(Done)
	return nil
}
