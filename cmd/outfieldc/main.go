// Command outfieldc is the thin CLI wrapper around the compiler package.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

// run is split out from main so testscript (rogpeppe/go-internal's CLI
// testing harness) can register it as the outfieldc command: scripts run
// it by re-executing the test binary, not a separately built outfieldc.
func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
