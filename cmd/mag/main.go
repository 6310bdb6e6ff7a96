// Package main is the entry point for the mag CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/magpiedev/magpie/internal/cli"
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, cli.ErrProblems) {
		os.Exit(2)
	}
	if !cli.IsSilent(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
