// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// iperf-vsock measures stream throughput over AF_VSOCK.

package main

import "github.com/momentics/hioload-vsock/internal/cli"

func main() {
	cli.Execute(cli.NewIperfCommand())
}
