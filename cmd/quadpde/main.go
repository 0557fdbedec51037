// Package main provides the quadpde command.
package main

import (
	"os"

	"github.com/quadpde/quadpde/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
