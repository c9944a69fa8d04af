// Package main is the entry point for the rulecfg CLI.
package main

import (
	"os"

	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}
