// Package main is the entry point for the tripctl operator CLI.
package main

import (
	"os"

	"github.com/pkordes/triptracker/backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
