package main

import (
	"fmt"
	"os"

	"github.com/roach88/kvrepo/internal/cli"
)

// Version is set via ldflags during build.
var Version = "dev"

func main() {
	cmd := cli.NewRootCommand()
	cmd.Version = Version

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
