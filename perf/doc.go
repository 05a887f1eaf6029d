// File: perf/doc.go
// Package perf
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Throughput benchmark protocol over a stream connection. Three fixed-size
// control messages frame the run:
//
//	Start(length = chunk size)
//	Data(length = chunk size) followed by length payload bytes, repeated
//	End(length = 0)
//
// The sender transmits until its duration budget is spent; the receiver
// counts payload bytes until End. Either side aborts on the first transport
// error or protocol violation.

package perf
