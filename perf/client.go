// File: perf/client.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package perf

import (
	"io"

	"github.com/momentics/hioload-vsock/api"
)

// RunClient drives a sender session over an already connected conn and
// prints its statistics to out.
func RunClient(conn api.Conn, cfg Config, out io.Writer) (*Report, error) {
	report, err := NewSession(Sender, cfg).Run(conn)
	if err != nil {
		return nil, err
	}
	return report, report.Render(out)
}
