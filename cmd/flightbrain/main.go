package main

import (
	"fmt"
	"os"

	"github.com/roach88/flightbrain/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(cli.GetExitCode(err)))
	}
}
