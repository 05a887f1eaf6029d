// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Execute runs cmd and terminates the process: status 1 when the command
// fails, 0 otherwise. Registered cleanup handlers run in both cases.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd.Name(), err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
