// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// nc-vsock relays standard input and output over an AF_VSOCK stream.

package main

import "github.com/momentics/hioload-vsock/internal/cli"

func main() {
	cli.Execute(cli.NewNcCommand())
}
