package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsed(t *testing.T, cmd *cobra.Command, args ...string) *cobra.Command {
	t.Helper()
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func iperfConfig(t *testing.T, args ...string) (*IperfConfig, error) {
	t.Helper()
	v, err := bindFlags(parsed(t, NewIperfCommand(), args...))
	require.NoError(t, err)
	return parseIperfConfig(v)
}

func ncConfig(t *testing.T, args ...string) (*NcConfig, error) {
	t.Helper()
	v, err := bindFlags(parsed(t, NewNcCommand(), args...))
	require.NoError(t, err)
	return parseNcConfig(v)
}

func TestIperfConfig_Defaults(t *testing.T) {
	cfg, err := iperfConfig(t, "-s")
	require.NoError(t, err)
	assert.True(t, cfg.Server)
	assert.Equal(t, uint32(5201), cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Duration)
	assert.Equal(t, 128<<10, cfg.ChunkSize)
	assert.Zero(t, cfg.Interval)
	assert.False(t, cfg.OneOff)
	assert.Equal(t, -1, cfg.Affinity)
}

func TestIperfConfig_Client(t *testing.T) {
	cfg, err := iperfConfig(t, "-c", "3", "-p", "6000", "-t", "2", "-l", "4KiB", "-i", "0.5", "-1", "-A", "2")
	require.NoError(t, err)
	assert.False(t, cfg.Server)
	assert.Equal(t, uint32(3), cfg.ClientCID)
	assert.Equal(t, uint32(6000), cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.Duration)
	assert.Equal(t, 4096, cfg.ChunkSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.True(t, cfg.OneOff)
	assert.Equal(t, 2, cfg.Affinity)

	sess := cfg.Session()
	assert.Equal(t, 4096, sess.ChunkSize)
	assert.Equal(t, 2*time.Second, sess.Duration)
}

func TestIperfConfig_Environment(t *testing.T) {
	t.Setenv("VSOCK_PORT", "7000")
	t.Setenv("VSOCK_LENGTH", "1MiB")

	cfg, err := iperfConfig(t, "--client", "2")
	require.NoError(t, err)
	assert.Equal(t, uint32(7000), cfg.Port)
	assert.Equal(t, 1<<20, cfg.ChunkSize)

	// Explicit flags win over the environment.
	cfg, err = iperfConfig(t, "--client", "2", "--port", "8000")
	require.NoError(t, err)
	assert.Equal(t, uint32(8000), cfg.Port)
}

func TestIperfConfig_Invalid(t *testing.T) {
	cases := map[string][]string{
		"no mode":           {},
		"both modes":        {"-s", "-c", "3"},
		"bad cid":           {"-c", "guest"},
		"cid overflow":      {"-c", "4294967296"},
		"negative time":     {"-c", "3", "-t", "-1"},
		"zero length":       {"-c", "3", "-l", "0"},
		"oversized length":  {"-c", "3", "-l", "2GiB"},
		"unparsable length": {"-c", "3", "-l", "lots"},
		"negative interval": {"-c", "3", "-i", "-1"},
		"bad affinity":      {"-c", "3", "-A", "-2"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := iperfConfig(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestNcConfig(t *testing.T) {
	cfg, err := ncConfig(t, "-l", "1234")
	require.NoError(t, err)
	assert.Equal(t, &NcConfig{Listen: true, Port: 1234}, cfg)

	cfg, err = ncConfig(t, "-c", "2", "-p", "1234")
	require.NoError(t, err)
	assert.Equal(t, &NcConfig{CID: 2, Port: 1234}, cfg)

	for _, args := range [][]string{
		{},
		{"-c", "2"},
		{"-p", "1234"},
		{"-l", "1234", "-c", "2"},
		{"-l", "port"},
		{"-c", "-5", "-p", "1"},
	} {
		_, err := ncConfig(t, args...)
		assert.Error(t, err, "args %v", args)
	}
}

func TestSetupLogging(t *testing.T) {
	defer logrus.SetOutput(logrus.StandardLogger().Out)
	defer logrus.SetLevel(logrus.GetLevel())
	defer logrus.SetFormatter(logrus.StandardLogger().Formatter)

	v, err := bindFlags(parsed(t, NewNcCommand(), "--log-level", "debug", "--log-format", "json"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, setupLogging(v, &buf))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	logrus.WithField("function", "TestSetupLogging").Debug("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "json output expected, got %q", buf.String())

	v, err = bindFlags(parsed(t, NewNcCommand(), "--log-level", "loud"))
	require.NoError(t, err)
	assert.Error(t, setupLogging(v, &buf))

	v, err = bindFlags(parsed(t, NewNcCommand(), "--log-format", "xml"))
	require.NoError(t, err)
	assert.Error(t, setupLogging(v, &buf))
}

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
}
