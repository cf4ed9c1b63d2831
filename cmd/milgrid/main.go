// Package main is the entry point for the milgrid binary.
package main

import (
	"os"

	"github.com/leapstack-labs/milgrid/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
