// File: vsock/state.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package vsock

import "fmt"

// State is the lifecycle position of a Handle.
type State int

const (
	StateCreated State = iota
	StateBound
	StateListening
	StateConnected
	StateAccepted
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateBound:
		return "bound"
	case StateListening:
		return "listening"
	case StateConnected:
		return "connected"
	case StateAccepted:
		return "accepted"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func stateError(s State) error {
	return fmt.Errorf("handle is %s", s)
}
