// File: perf/session.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package perf

import (
	"fmt"
	"time"

	"github.com/momentics/hioload-vsock/api"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// Role selects which side of the protocol a session drives.
type Role int

const (
	Sender Role = iota + 1
	Receiver
)

func (r Role) String() string {
	switch r {
	case Sender:
		return "sender"
	case Receiver:
		return "receiver"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// State is the position of a session in the protocol state machine.
type State int

const (
	Idle State = iota
	Announcing
	Transferring
	Finishing
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Announcing:
		return "announcing"
	case Transferring:
		return "transferring"
	case Finishing:
		return "finishing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Config carries the already-validated parameters of one session.
type Config struct {
	// Duration is the sender's transmit budget. Unused by receivers.
	Duration time.Duration
	// ChunkSize is the payload size per Data message. Receivers learn it
	// from the Start message.
	ChunkSize int
	// Interval enables periodic throughput samples when positive.
	Interval time.Duration
}

// Session is the state of one benchmark run over one connection.
type Session struct {
	ID        xid.ID
	Role      Role
	Duration  time.Duration
	ChunkSize int
	Bytes     uint64
	Start     time.Time
	End       time.Time

	state     State
	intervals *intervalRecorder
	now       func() time.Time
	log       *logrus.Entry
}

// NewSession creates a fresh session for one connection.
func NewSession(role Role, cfg Config) *Session {
	id := xid.New()
	return &Session{
		ID:        id,
		Role:      role,
		Duration:  cfg.Duration,
		ChunkSize: cfg.ChunkSize,
		intervals: newIntervalRecorder(cfg.Interval),
		now:       time.Now,
		log: logrus.WithFields(logrus.Fields{
			"session": id.String(),
			"role":    role.String(),
		}),
	}
}

// State returns the current protocol state.
func (s *Session) State() State {
	return s.state
}

// Elapsed is the length of the active transfer phase.
func (s *Session) Elapsed() time.Duration {
	if s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

func (s *Session) setState(st State) {
	s.log.WithFields(logrus.Fields{
		"from": s.state.String(),
		"to":   st.String(),
	}).Debug("session state change")
	s.state = st
}

// Run drives the session to Done over conn and returns its statistics.
// Any transport failure or protocol violation aborts the session: the
// state becomes Failed and the error is returned without retry.
func (s *Session) Run(conn api.Conn) (*Report, error) {
	if s.state != Idle {
		return nil, fmt.Errorf("session %s: %w: already %s", s.ID, api.ErrInvalidState, s.state)
	}

	cpu := startCPUMeter()
	s.Start = s.now()
	s.intervals.begin(s.Start)

	var err error
	switch s.Role {
	case Sender:
		err = s.send(conn)
	case Receiver:
		err = s.receive(conn)
	default:
		err = fmt.Errorf("session %s: %w: unknown role %d", s.ID, api.ErrInvalidArgument, int(s.Role))
	}
	s.End = s.now()

	if err != nil {
		s.setState(Failed)
		s.log.WithFields(logrus.Fields{
			"function": "Run",
			"bytes":    s.Bytes,
			"error":    err.Error(),
		}).Warn("benchmark session aborted")
		return nil, err
	}

	s.intervals.finish(s.End, s.Bytes)
	report := s.report(conn)
	report.CPUPercent, report.CPUValid = cpu.stop(s.Elapsed())

	s.log.WithFields(logrus.Fields{
		"function": "Run",
		"bytes":    s.Bytes,
		"elapsed":  s.Elapsed().String(),
	}).Info("benchmark session complete")
	return report, nil
}

func (s *Session) report(conn api.Conn) *Report {
	r := &Report{
		SessionID: s.ID.String(),
		Role:      s.Role,
		Duration:  s.Elapsed(),
		Bytes:     s.Bytes,
		ChunkSize: s.ChunkSize,
		Intervals: s.intervals.drain(),
	}
	if peer := conn.RemoteAddr(); peer != nil {
		r.Peer = peer.String()
	}
	return r
}
