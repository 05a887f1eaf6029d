// File: relay/doc.go
// Package relay
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-goroutine byte relay between a stream connection and a local
// input/output pair, multiplexed over a readiness reactor.

package relay
