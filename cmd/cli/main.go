// Package main is the entry point for the cabinet-pricing CLI.
package main

import (
	"os"

	"cabinet-pricing/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
