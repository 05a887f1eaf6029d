// File: perf/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Sequential accept loop: one benchmark session at a time.

package perf

import (
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/momentics/hioload-vsock/api"
	"github.com/momentics/hioload-vsock/control"
	"github.com/momentics/hioload-vsock/vsock"
	"github.com/sirupsen/logrus"
)

// DefaultPort is the benchmark's well-known port.
const DefaultPort uint32 = 5201

// AcceptFunc blocks until the next connection is available.
type AcceptFunc func() (api.Conn, error)

// HandleAcceptor adapts a listening vsock handle to an AcceptFunc.
func HandleAcceptor(ln *vsock.Handle) AcceptFunc {
	return func() (api.Conn, error) {
		c, err := ln.Accept()
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Server accepts clients one at a time and runs a receiver session for
// each. A failed session is logged and the next client is accepted.
type Server struct {
	accept      AcceptFunc
	port        uint32
	out         io.Writer
	session     Config
	maxSessions int
	metrics     *control.MetricsRegistry
}

// ServerOption customizes server initialization.
type ServerOption func(*Server)

// WithOutput sets where banners and reports are printed.
func WithOutput(w io.Writer) ServerOption {
	return func(s *Server) {
		s.out = w
	}
}

// WithSessionConfig sets the receiver session parameters, such as the
// reporting interval.
func WithSessionConfig(cfg Config) ServerOption {
	return func(s *Server) {
		s.session = cfg
	}
}

// WithMaxSessions stops Serve after n sessions; 0 serves forever.
func WithMaxSessions(n int) ServerOption {
	return func(s *Server) {
		s.maxSessions = n
	}
}

// WithMetrics records per-session counters into mr.
func WithMetrics(mr *control.MetricsRegistry) ServerOption {
	return func(s *Server) {
		s.metrics = mr
	}
}

// NewServer creates a server that announces port in its banner.
func NewServer(accept AcceptFunc, port uint32, opts ...ServerOption) *Server {
	s := &Server{
		accept:  accept,
		port:    port,
		out:     io.Discard,
		metrics: control.NewMetricsRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the server's metrics registry.
func (s *Server) Metrics() *control.MetricsRegistry {
	return s.metrics
}

var banner = strings.Repeat("-", 59)

// Serve runs the accept loop. It returns only when accept fails or the
// configured number of sessions has been served.
func (s *Server) Serve() error {
	for served := 0; s.maxSessions == 0 || served < s.maxSessions; served++ {
		fmt.Fprintln(s.out, banner)
		fmt.Fprintf(s.out, "Server listening on port %d\n", s.port)
		fmt.Fprintln(s.out, banner)

		conn, err := s.accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		s.serveOne(conn)
	}
	return nil
}

func (s *Server) serveOne(conn api.Conn) {
	defer conn.Close()

	peer := conn.RemoteAddr()
	fmt.Fprintf(s.out, "Accepted connection from %s\n", describePeer(peer))

	sess := NewSession(Receiver, s.session)
	report, err := sess.Run(conn)
	s.metrics.Add(control.MetricSessionsTotal, 1)
	if peer != nil {
		s.metrics.Set(control.MetricLastPeer, peer.String())
	}
	if err != nil {
		s.metrics.Add(control.MetricSessionsFailed, 1)
		s.metrics.Add(control.MetricBytesTotal, sess.Bytes)
		logrus.WithFields(logrus.Fields{
			"function": "Serve",
			"session":  sess.ID.String(),
			"error":    err.Error(),
		}).Error("session failed")
		return
	}
	s.metrics.Add(control.MetricBytesTotal, report.Bytes)
	s.metrics.Set(control.MetricLastBitRate, report.BitsPerSecond())
	if err := report.Render(s.out); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Serve",
			"error":    err.Error(),
		}).Warn("failed to print report")
	}
}

func describePeer(a net.Addr) string {
	switch v := a.(type) {
	case nil:
		return "unknown peer"
	case vsock.Addr:
		return fmt.Sprintf("%d, port %d", v.ContextID, v.Port)
	default:
		return v.String()
	}
}
