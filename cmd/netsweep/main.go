// Command netsweep is the entry point for the netsweep CLI.
package main

import (
	"github.com/kmartell/netsweep/cmd/cli"
)

// Build information - set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}
