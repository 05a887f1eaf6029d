// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/momentics/hioload-vsock/affinity"
	"github.com/momentics/hioload-vsock/control"
	"github.com/momentics/hioload-vsock/perf"
	"github.com/momentics/hioload-vsock/vsock"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tebeka/atexit"
)

// IperfConfig is the validated iperf-vsock configuration.
type IperfConfig struct {
	Server    bool
	ClientCID uint32
	Port      uint32
	Duration  time.Duration
	ChunkSize int
	Interval  time.Duration
	OneOff    bool
	// Affinity is the CPU the benchmark is pinned to, or -1.
	Affinity int
}

// Session returns the per-session benchmark parameters.
func (c *IperfConfig) Session() perf.Config {
	return perf.Config{
		Duration:  c.Duration,
		ChunkSize: c.ChunkSize,
		Interval:  c.Interval,
	}
}

// NewIperfCommand builds the iperf-vsock root command.
func NewIperfCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iperf-vsock",
		Short: "Measure throughput over VM sockets",
		Long: `Measure stream throughput between a hypervisor and its guests over
AF_VSOCK. Run one side with --server and the other with --client <cid>.
Every flag can also be set via environment variables of the form
VSOCK_<FLAG> (e.g. VSOCK_PORT=5201).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loadEnvFiles()
			v, err := bindFlags(cmd)
			if err != nil {
				return err
			}
			if err := setupLogging(v, cmd.ErrOrStderr()); err != nil {
				return err
			}
			cfg, err := parseIperfConfig(v)
			if err != nil {
				return err
			}
			if cfg.Affinity >= 0 {
				if err := affinity.Pin(cfg.Affinity); err != nil {
					return err
				}
			}
			if cfg.Server {
				return runIperfServer(cfg, cmd.OutOrStdout())
			}
			return runIperfClient(cfg, cmd.OutOrStdout())
		},
	}

	key := "server"
	cmd.Flags().BoolP(key, "s", false, WrapString("Run in server mode"))
	key = "client"
	cmd.Flags().StringP(key, "c", "", WrapString("Run in client mode, connecting to the given CID"))
	key = "port"
	cmd.Flags().Uint32P(key, "p", perf.DefaultPort, WrapString("Port to listen on or connect to"))
	key = "time"
	cmd.Flags().IntP(key, "t", 10, WrapString("Time in seconds to transmit for (client only)"))
	key = "length"
	cmd.Flags().StringP(key, "l", "128KiB", WrapString("Length of the buffer to write, with optional unit suffix (client only)"))
	key = "interval"
	cmd.Flags().Float64P(key, "i", 0, WrapString("Seconds between periodic throughput reports, 0 disables them"))
	key = "one-off"
	cmd.Flags().BoolP(key, "1", false, WrapString("Handle one client connection, then exit (server only)"))
	key = "affinity"
	cmd.Flags().IntP(key, "A", -1, WrapString("Pin the benchmark to the given CPU, -1 disables pinning"))
	addLogFlags(cmd)
	return cmd
}

func parseIperfConfig(v *viper.Viper) (*IperfConfig, error) {
	cfg := &IperfConfig{
		Server:   v.GetBool("server"),
		Port:     v.GetUint32("port"),
		OneOff:   v.GetBool("one-off"),
		Affinity: v.GetInt("affinity"),
	}
	if cfg.Affinity < -1 {
		return nil, fmt.Errorf("invalid affinity %d", cfg.Affinity)
	}

	client := v.GetString("client")
	switch {
	case cfg.Server && client != "":
		return nil, errors.New("--server and --client are mutually exclusive")
	case !cfg.Server && client == "":
		return nil, errors.New("either --server or --client <cid> is required")
	case client != "":
		cid, err := parseUint32("cid", client)
		if err != nil {
			return nil, err
		}
		cfg.ClientCID = cid
	}

	secs := v.GetInt("time")
	if secs < 0 {
		return nil, fmt.Errorf("invalid time %d: must not be negative", secs)
	}
	cfg.Duration = time.Duration(secs) * time.Second

	length, err := humanize.ParseBytes(v.GetString("length"))
	if err != nil {
		return nil, fmt.Errorf("invalid length: %w", err)
	}
	if length == 0 || length > perf.MaxChunkSize {
		return nil, fmt.Errorf("invalid length %s: must be between 1 B and %s",
			v.GetString("length"), humanize.IBytes(perf.MaxChunkSize))
	}
	cfg.ChunkSize = int(length)

	interval := v.GetFloat64("interval")
	if interval < 0 {
		return nil, fmt.Errorf("invalid interval %v: must not be negative", interval)
	}
	cfg.Interval = time.Duration(interval * float64(time.Second))
	return cfg, nil
}

func runIperfServer(cfg *IperfConfig, out io.Writer) error {
	ln, err := vsock.Listen(vsock.Addr{ContextID: vsock.CIDAny, Port: cfg.Port}, 1)
	if err != nil {
		return err
	}
	atexit.Register(func() { _ = ln.Close() })
	defer ln.Close()

	opts := []perf.ServerOption{
		perf.WithOutput(out),
		perf.WithSessionConfig(perf.Config{Interval: cfg.Interval}),
	}
	if cfg.OneOff {
		opts = append(opts, perf.WithMaxSessions(1))
	}
	srv := perf.NewServer(perf.HandleAcceptor(ln), cfg.Port, opts...)
	err = srv.Serve()

	m := srv.Metrics()
	logrus.WithFields(logrus.Fields{
		"function": "runIperfServer",
		"sessions": m.Counter(control.MetricSessionsTotal),
		"failed":   m.Counter(control.MetricSessionsFailed),
		"bytes":    m.Counter(control.MetricBytesTotal),
	}).Info("server stopped")
	return err
}

func runIperfClient(cfg *IperfConfig, out io.Writer) error {
	fmt.Fprintf(out, "Connecting to host %d, port %d\n", cfg.ClientCID, cfg.Port)
	conn, err := vsock.Dial(vsock.Addr{ContextID: cfg.ClientCID, Port: cfg.Port})
	if err != nil {
		return err
	}
	atexit.Register(func() { _ = conn.Close() })
	defer conn.Close()

	_, err = perf.RunClient(conn, cfg.Session(), out)
	return err
}
