// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral readiness reactor contract for single-goroutine IO
// multiplexing.

package reactor

import "github.com/momentics/hioload-vsock/api"

// EventReactor defines basic reactor operations across OS platforms.
type EventReactor = api.Reactor

// Event contains event information returned by Wait call.
type Event = api.Event

// DefaultBatch is the number of readiness events collected per Wait.
const DefaultBatch = 10
