// File: perf/report.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package perf

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

// Report holds the statistics of one finished session. Sender and receiver
// measure their own clocks; no synchronization is attempted.
type Report struct {
	SessionID  string
	Role       Role
	Peer       string
	Duration   time.Duration
	Bytes      uint64
	ChunkSize  int
	CPUPercent float64
	CPUValid   bool
	Intervals  []Sample
}

// Seconds returns the transfer duration in seconds.
func (r *Report) Seconds() float64 {
	return r.Duration.Seconds()
}

// BitsPerSecond returns bytes*8/duration.
func (r *Report) BitsPerSecond() float64 {
	return bitRate(r.Bytes, r.Duration)
}

func bitRate(bytes uint64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(bytes) * 8 / d.Seconds()
}

// FormatBytes renders a byte count with binary unit prefixes.
func FormatBytes(n uint64) string {
	return humanize.IBytes(n)
}

// FormatBitRate renders a bit rate with decimal unit prefixes.
func FormatBitRate(bps float64) string {
	return humanize.SIWithDigits(bps, 2, "bits/sec")
}

// Render writes the human-readable statistics table.
func (r *Report) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	if len(r.Intervals) > 0 {
		fmt.Fprintln(tw, "Interval\tTransfer\tBitrate\t")
		for _, s := range r.Intervals {
			fmt.Fprintf(tw, "%.2f-%.2f sec\t%s\t%s\t\n",
				s.Offset.Seconds(), (s.Offset + s.Span).Seconds(),
				FormatBytes(s.Bytes), FormatBitRate(s.BitsPerSecond()))
		}
		fmt.Fprintln(tw, "\t\t\t")
	}
	fmt.Fprintln(tw, "Duration\tTransfer\tBitrate\tCPU\t")
	cpu := "n/a"
	if r.CPUValid {
		cpu = fmt.Sprintf("%.1f%%", r.CPUPercent)
	}
	fmt.Fprintf(tw, "%.3f sec\t%s\t%s\t%s\t\n",
		r.Seconds(), FormatBytes(r.Bytes), FormatBitRate(r.BitsPerSecond()), cpu)
	return tw.Flush()
}
