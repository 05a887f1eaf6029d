// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/momentics/hioload-vsock/relay"
	"github.com/momentics/hioload-vsock/vsock"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tebeka/atexit"
)

// NcConfig is the validated nc-vsock configuration.
type NcConfig struct {
	Listen bool
	CID    uint32
	Port   uint32
}

// NewNcCommand builds the nc-vsock root command. Local input is read from
// the command's input stream, which must be backed by a descriptor.
func NewNcCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nc-vsock",
		Short: "Relay the terminal over a VM socket",
		Long: `Connect standard input and output to an AF_VSOCK stream. Use
--listen <port> to accept one peer, or --cid <cid> --port <port> to connect.`,
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
			cfg, err := parseNcConfig(v)
			if err != nil {
				return err
			}
			in, ok := cmd.InOrStdin().(relay.Input)
			if !ok {
				return errors.New("local input is not backed by a file descriptor")
			}
			return runNc(cfg, in, cmd.OutOrStdout())
		},
	}

	key := "listen"
	cmd.Flags().StringP(key, "l", "", WrapString("Listen on the given port and accept one connection"))
	key = "cid"
	cmd.Flags().StringP(key, "c", "", WrapString("CID of the peer to connect to"))
	key = "port"
	cmd.Flags().StringP(key, "p", "", WrapString("Port of the peer to connect to"))
	addLogFlags(cmd)
	return cmd
}

func parseNcConfig(v *viper.Viper) (*NcConfig, error) {
	listen, cid, port := v.GetString("listen"), v.GetString("cid"), v.GetString("port")
	switch {
	case listen != "" && (cid != "" || port != ""):
		return nil, errors.New("--listen cannot be combined with --cid or --port")
	case listen != "":
		p, err := parseUint32("port", listen)
		if err != nil {
			return nil, err
		}
		return &NcConfig{Listen: true, Port: p}, nil
	case cid == "" || port == "":
		return nil, errors.New("either --listen <port> or both --cid and --port are required")
	}

	c, err := parseUint32("cid", cid)
	if err != nil {
		return nil, err
	}
	p, err := parseUint32("port", port)
	if err != nil {
		return nil, err
	}
	return &NcConfig{CID: c, Port: p}, nil
}

func connectNc(cfg *NcConfig) (*vsock.Handle, error) {
	if !cfg.Listen {
		return vsock.Dial(vsock.Addr{ContextID: cfg.CID, Port: cfg.Port})
	}
	ln, err := vsock.Listen(vsock.Addr{ContextID: vsock.CIDAny, Port: cfg.Port}, 1)
	if err != nil {
		return nil, err
	}
	defer ln.Close()
	return ln.Accept()
}

func runNc(cfg *NcConfig, in relay.Input, out io.Writer) error {
	conn, err := connectNc(cfg)
	if err != nil {
		return err
	}
	atexit.Register(func() { _ = conn.Close() })
	defer conn.Close()

	local, err := conn.LocalAddr()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Connected to %d port %d\n", local.ContextID, local.Port)

	err = relay.New(conn, in, out).Run()
	var remote *relay.RemoteError
	if errors.As(err, &remote) {
		logrus.WithFields(logrus.Fields{
			"function": "runNc",
			"error":    remote.Err.Error(),
		}).Debug("relay ended on remote read failure")
	}
	return err
}
