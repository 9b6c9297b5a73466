package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasnoah/lintmux/internal/cli"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cli.SetVersion(Version)
	if err := cli.Execute(); err != nil {
		// Findings already appear in the report; exit 2 marks real
		// infrastructure failures apart from failed checks.
		if errors.Is(err, cli.ErrFindings) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
