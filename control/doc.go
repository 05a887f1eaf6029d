// Package control
// Author: momentics <momentics@gmail.com>
//
// Process-wide runtime metrics for the benchmark server. The registry is a
// thread-safe key/value map; counters are uint64 values updated with Add.
package control
