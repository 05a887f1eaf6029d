// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Defines the abstract interface for readiness reactors used to multiplex
// descriptors on a single goroutine.

package api

// Event encapsulates the result of an OS-level readiness notification
type Event struct {
	Fd       uintptr // file descriptor
	UserData uintptr // opaque application value supplied at registration
}

// Reactor defines the common interface for an event-loop that reports
// read readiness regardless of the specific polling mechanism used.
type Reactor interface {
	// Register must associate a descriptor with the event loop
	Register(fd uintptr, userData uintptr) error

	// Unregister removes a descriptor from the interest set
	Unregister(fd uintptr) error

	// Wait must block until at least one descriptor is ready and fill
	// events with the ready batch
	Wait(events []Event) (int, error)

	// Close must cleanup the internal poller backend
	Close() error
}
