// Package cli
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Command-line front ends shared by the iperf-vsock and nc-vsock binaries:
// flag definitions, environment configuration and logging setup.

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to wrap the help text at
	Wrap int = 50

	// EnvPrefix prefixes every environment variable, e.g. VSOCK_PORT.
	EnvPrefix = "vsock"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var lines []string
	var line strings.Builder
	width := 0
	for _, word := range strings.Fields(text) {
		if width > 0 && width+1+len(word) > Wrap {
			lines = append(lines, line.String())
			line.Reset()
			width = 0
		}
		if width > 0 {
			line.WriteString(" ")
			width++
		}
		line.WriteString(word)
		width += len(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// loadEnvFiles reads .env and .env.local from the working directory. Missing
// files are ignored.
func loadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// bindFlags returns a viper instance resolving cmd's flags, then VSOCK_*
// environment variables, then flag defaults.
func bindFlags(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return v, nil
}

func addLogFlags(cmd *cobra.Command) {
	key := "log-level"
	cmd.Flags().String(key, "info", WrapString("Log level (trace, debug, info, warn, error)"))
	key = "log-format"
	cmd.Flags().String(key, "text", WrapString("Log format (text, json)"))
}

// setupLogging configures the global logrus logger. Logs always go to w so
// stdout carries only tool output.
func setupLogging(v *viper.Viper, w io.Writer) error {
	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch format := v.GetString("log-format"); format {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q (expected text or json)", format)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(w)
	return nil
}

// parseUint32 parses a decimal CID or port.
func parseUint32(name, s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return uint32(n), nil
}
