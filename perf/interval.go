// File: perf/interval.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package perf

import (
	"time"

	"github.com/eapache/queue"
)

// Sample is the throughput observed during one reporting interval.
type Sample struct {
	Offset time.Duration // start of the interval relative to session start
	Span   time.Duration
	Bytes  uint64
}

// BitsPerSecond returns the sample's bit rate.
func (s Sample) BitsPerSecond() float64 {
	return bitRate(s.Bytes, s.Span)
}

// intervalRecorder turns the running byte counter into per-interval
// samples. A zero interval disables recording.
type intervalRecorder struct {
	every     time.Duration
	start     time.Time
	next      time.Time
	lastBytes uint64
	lastMark  time.Time
	samples   *queue.Queue
}

func newIntervalRecorder(every time.Duration) *intervalRecorder {
	return &intervalRecorder{
		every:   every,
		samples: queue.New(),
	}
}

func (r *intervalRecorder) begin(start time.Time) {
	r.start = start
	r.lastMark = start
	r.next = start.Add(r.every)
}

// observe is called with the cumulative byte count after each chunk.
func (r *intervalRecorder) observe(now time.Time, total uint64) {
	if r.every <= 0 || now.Before(r.next) {
		return
	}
	r.push(now, total)
	for !r.next.After(now) {
		r.next = r.next.Add(r.every)
	}
}

// finish records the trailing partial interval, if any bytes moved in it.
func (r *intervalRecorder) finish(end time.Time, total uint64) {
	if r.every <= 0 || total == r.lastBytes {
		return
	}
	r.push(end, total)
}

func (r *intervalRecorder) push(now time.Time, total uint64) {
	r.samples.Add(Sample{
		Offset: r.lastMark.Sub(r.start),
		Span:   now.Sub(r.lastMark),
		Bytes:  total - r.lastBytes,
	})
	r.lastMark = now
	r.lastBytes = total
}

// drain removes all recorded samples in FIFO order.
func (r *intervalRecorder) drain() []Sample {
	if r.samples.Length() == 0 {
		return nil
	}
	out := make([]Sample, 0, r.samples.Length())
	for r.samples.Length() > 0 {
		out = append(out, r.samples.Remove().(Sample))
	}
	return out
}
