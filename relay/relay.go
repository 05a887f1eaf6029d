// File: relay/relay.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package relay

import (
	"errors"
	"fmt"
	"io"

	"github.com/momentics/hioload-vsock/api"
	"github.com/momentics/hioload-vsock/pool"
	"github.com/momentics/hioload-vsock/reactor"
	"github.com/momentics/hioload-vsock/transport"
	"github.com/sirupsen/logrus"
)

// Event tags registered with the reactor.
const (
	EventRemoteIn uintptr = 1
	EventLocalIn  uintptr = 2
)

// BufferSize is the most bytes moved per readiness event.
const BufferSize = 1024

// Input is a readable local source backed by a pollable descriptor, such
// as *os.File.
type Input interface {
	io.Reader
	Fd() uintptr
}

// RemoteError reports a failed read from the remote side.
type RemoteError struct {
	Err error
}

func (e *RemoteError) Error() string {
	return "remote read: " + e.Err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Loop relays bytes between conn and the local input/output pair.
type Loop struct {
	conn    api.Conn
	in      Input
	out     io.Writer
	reactor api.Reactor
	log     *logrus.Entry
}

// Option customizes a Loop.
type Option func(*Loop)

// WithReactor makes the loop use r instead of creating its own. The caller
// keeps ownership of r.
func WithReactor(r api.Reactor) Option {
	return func(l *Loop) {
		l.reactor = r
	}
}

// New creates a relay between conn and the in/out pair.
func New(conn api.Conn, in Input, out io.Writer, opts ...Option) *Loop {
	l := &Loop{
		conn: conn,
		in:   in,
		out:  out,
		log:  logrus.WithField("component", "relay"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run multiplexes until the remote side disconnects or the reactor fails,
// both of which end the loop cleanly. A failed remote read is returned as
// *RemoteError. Local end of input half-closes the connection and the loop
// keeps draining the remote side.
func (l *Loop) Run() error {
	r := l.reactor
	if r == nil {
		own, err := reactor.NewReactor()
		if err != nil {
			return fmt.Errorf("relay: %w", err)
		}
		defer own.Close()
		r = own
	}

	if err := r.Register(l.conn.RawFD(), EventRemoteIn); err != nil {
		return fmt.Errorf("relay: register remote: %w", err)
	}
	if err := r.Register(l.in.Fd(), EventLocalIn); err != nil {
		return fmt.Errorf("relay: register local input: %w", err)
	}

	bp := pool.ForSize(BufferSize)
	buf := bp.GetBuffer()
	defer bp.PutBuffer(buf)

	events := make([]api.Event, reactor.DefaultBatch)
	localOpen := true
	for {
		n, err := r.Wait(events)
		if err != nil {
			l.log.WithFields(logrus.Fields{
				"function": "Run",
				"error":    err.Error(),
			}).Warn("reactor wait failed, stopping relay")
			return nil
		}

		for _, ev := range events[:n] {
			switch ev.UserData {
			case EventRemoteIn:
				got, err := l.conn.Recv(buf, api.MsgNone)
				if err != nil {
					return &RemoteError{Err: err}
				}
				if got == 0 {
					l.log.WithField("function", "Run").Debug("peer disconnected")
					return nil
				}
				if _, err := l.out.Write(buf[:got]); err != nil {
					return fmt.Errorf("relay: write output: %w", err)
				}

			case EventLocalIn:
				if !localOpen {
					continue
				}
				got, err := l.in.Read(buf)
				if got > 0 {
					if _, err := transport.SendAll(l.conn, buf[:got]); err != nil {
						return fmt.Errorf("relay: send: %w", err)
					}
				}
				if err == nil && got > 0 {
					continue
				}
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("relay: read local input: %w", err)
				}
				localOpen = false
				if err := l.closeLocal(r); err != nil {
					return err
				}

			default:
				return fmt.Errorf("relay: %w: unknown event tag %d", api.ErrInvalidArgument, ev.UserData)
			}
		}
	}
}

// closeLocal stops watching local input and shuts down the send side so
// the peer sees end of stream.
func (l *Loop) closeLocal(r api.Reactor) error {
	if err := r.Unregister(l.in.Fd()); err != nil {
		return fmt.Errorf("relay: unregister local input: %w", err)
	}
	if hc, ok := l.conn.(api.HalfCloser); ok {
		if err := hc.CloseWrite(); err != nil {
			l.log.WithFields(logrus.Fields{
				"function": "closeLocal",
				"error":    err.Error(),
			}).Debug("half-close failed")
		}
	}
	l.log.WithField("function", "closeLocal").Debug("local input closed")
	return nil
}
