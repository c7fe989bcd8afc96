// Command shexcheck sweeps a ShEx test suite manifest.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/shexcheck/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	// Commands report their own errors; cobra's own (bad flags, unknown
	// commands) are printed here.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(cli.GetExitCode(err))
}
