// Package main provides the entry point for livewatch.
package main

import (
	"os"

	"github.com/yndnr/livewatch-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
