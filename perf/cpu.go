// File: perf/cpu.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package perf

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
)

// cpuMeter measures this process's CPU time across a session.
type cpuMeter struct {
	proc  *process.Process
	start float64
}

func startCPUMeter() *cpuMeter {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "startCPUMeter",
			"error":    err.Error(),
		}).Debug("process CPU accounting unavailable")
		return &cpuMeter{}
	}
	t, err := proc.Times()
	if err != nil {
		return &cpuMeter{}
	}
	return &cpuMeter{proc: proc, start: t.User + t.System}
}

// stop returns the CPU utilization in percent of one core over elapsed.
func (m *cpuMeter) stop(elapsed time.Duration) (float64, bool) {
	if m.proc == nil || elapsed <= 0 {
		return 0, false
	}
	t, err := m.proc.Times()
	if err != nil {
		return 0, false
	}
	used := t.User + t.System - m.start
	return used / elapsed.Seconds() * 100, true
}
