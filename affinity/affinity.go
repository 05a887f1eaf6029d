// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files guarded by build tags.

package affinity

import (
	"fmt"
	"runtime"

	"github.com/momentics/hioload-vsock/api"
)

// Pin locks the calling goroutine to its OS thread and restricts that thread
// to the given logical CPU. The lock is never released: callers pin the
// goroutine that runs the measured work and let it exit afterwards.
func Pin(cpuID int) error {
	if cpuID < 0 {
		return fmt.Errorf("affinity: %w: cpu %d", api.ErrInvalidArgument, cpuID)
	}
	runtime.LockOSThread()
	return setAffinityPlatform(cpuID)
}
