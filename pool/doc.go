// Package pool
// Author: momentics <momentics@gmail.com>
//
// Buffer recycling for the IO paths: benchmark payload chunks and relay
// read buffers. See bytepool.go.
package pool
